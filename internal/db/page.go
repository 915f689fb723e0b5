package db

import "gorm.io/gorm"

const (
	// VisibilityPublic 任何访问者可见。
	VisibilityPublic = "public"
	// VisibilityPrivate 仅所有者本人可见。
	VisibilityPrivate = "private"
)

// Page 表示所有者名下的一个公开页面。
// PageIndex 提供所有者内部的稳定排序（0 约定为默认页），Slug 与 PageIndex
// 的所有者内唯一性由写入方保证，解析层只做读取。
// IsDefault 每个所有者至多一个为 true，该约束由解析逻辑兜底而非存储唯一索引。
type Page struct {
	gorm.Model
	OwnerID    uint   `gorm:"index;not null"`
	Owner      Owner  `gorm:"constraint:OnDelete:CASCADE"`
	PageIndex  int    `gorm:"not null;default:0;index:idx_pages_owner_page_index"`
	Slug       string `gorm:"size:100;index:idx_pages_owner_slug"`
	Title      string `gorm:"size:200"`
	Bio        string `gorm:"type:text"`
	IsDefault  bool   `gorm:"not null;default:false"`
	IsActive   bool   `gorm:"not null;default:true"`
	Visibility string `gorm:"size:20;not null;default:public"`
	Views      uint64 `gorm:"not null;default:0"`
}
