package db

import "time"

// EventTypeView 页面浏览事件类型。
const EventTypeView = "view"

// PageViewEvent 逐条记录页面浏览，只追加不更新。
type PageViewEvent struct {
	ID        uint   `gorm:"primaryKey"`
	PageID    uint   `gorm:"index"`
	EventType string `gorm:"size:20;not null;default:view"`
	IP        string `gorm:"size:64"`
	VisitorID string `gorm:"size:36"`
	Timestamp time.Time `gorm:"index"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (PageViewEvent) TableName() string {
	return "page_view_events"
}

// PageViewDaily 按 (page_id, day) 聚合的浏览数，幂等 upsert 维护。
type PageViewDaily struct {
	ID        uint   `gorm:"primaryKey"`
	PageID    uint   `gorm:"index:idx_page_view_daily_unique,unique"`
	Day       string `gorm:"size:10;index:idx_page_view_daily_unique,unique"`
	Count     uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (PageViewDaily) TableName() string {
	return "page_view_dailies"
}

// LinkClickDaily 按 (link_id, day) 聚合的点击数。
type LinkClickDaily struct {
	ID        uint   `gorm:"primaryKey"`
	LinkID    uint   `gorm:"index:idx_link_click_daily_unique,unique"`
	Day       string `gorm:"size:10;index:idx_link_click_daily_unique,unique"`
	Count     uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (LinkClickDaily) TableName() string {
	return "link_click_dailies"
}

// RedirectClickDaily 按 (redirect_id, day) 聚合的短链点击数。
type RedirectClickDaily struct {
	ID         uint   `gorm:"primaryKey"`
	RedirectID uint   `gorm:"index:idx_redirect_click_daily_unique,unique"`
	Day        string `gorm:"size:10;index:idx_redirect_click_daily_unique,unique"`
	Count      uint64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 指定自定义表名。
func (RedirectClickDaily) TableName() string {
	return "redirect_click_dailies"
}
