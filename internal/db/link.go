package db

import (
	"time"

	"gorm.io/gorm"
)

// Link 表示页面上的一条外链。
// PageID 为空时为历史数据：链接直接挂在所有者名下，不参与页面校验。
type Link struct {
	gorm.Model
	OwnerID   uint   `gorm:"index;not null"`
	PageID    *uint  `gorm:"index"`
	Title     string `gorm:"size:200"`
	TargetURL string `gorm:"size:2048;not null"`
	Clicks    uint64 `gorm:"not null;default:0"`
}

// Redirect 表示全局短链，Slug 全局唯一，可设置过期时间。
type Redirect struct {
	gorm.Model
	Slug      string `gorm:"size:100;uniqueIndex;not null"`
	TargetURL string `gorm:"size:2048;not null"`
	ExpiresAt *time.Time
	Clicks    uint64 `gorm:"not null;default:0"`
}
