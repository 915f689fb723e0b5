package service

import (
	"fmt"
	"time"

	"github.com/linkdeck/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyticsService 负责浏览与点击的计数及按天聚合。
// 三类事件（页面浏览、链接点击、短链点击）共用同一套模式：
// 主计数器递增必须成功并对调用方可见，按天聚合为尽力而为，
// 失败只记日志不向上传播。
type AnalyticsService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAnalyticsService 构造 AnalyticsService，log 为 nil 时使用空实现。
func NewAnalyticsService(gdb *gorm.DB, log *zap.SugaredLogger) *AnalyticsService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AnalyticsService{db: gdb, log: log}
}

// RecordPageView 记录一次页面浏览：
// 事务内完成 views 计数递增与事件行追加（整体成败一致），
// 随后对 (page_id, 当天) 做一次原子 upsert 聚合。
func (s *AnalyticsService) RecordPageView(pageID uint, ip, visitorID string, now time.Time) error {
	if pageID == 0 {
		return ErrPageNotFound
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Page{}).
			Where("id = ?", pageID).
			UpdateColumn("views", gorm.Expr("views + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPageNotFound
		}

		event := db.PageViewEvent{
			PageID:    pageID,
			EventType: db.EventTypeView,
			IP:        ip,
			VisitorID: visitorID,
			Timestamp: now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		return fmt.Errorf("record page view: %w", err)
	}

	s.upsertDaily(&db.PageViewDaily{PageID: pageID, Day: DayKey(now), Count: 1},
		"page_id", "page view", pageID)
	return nil
}

// RecordLinkClick 递增链接点击计数并聚合当天点击数。
func (s *AnalyticsService) RecordLinkClick(linkID uint, now time.Time) error {
	if linkID == 0 {
		return ErrLinkNotFound
	}

	result := s.db.Model(&db.Link{}).
		Where("id = ?", linkID).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return fmt.Errorf("record link click: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}

	s.upsertDaily(&db.LinkClickDaily{LinkID: linkID, Day: DayKey(now), Count: 1},
		"link_id", "link click", linkID)
	return nil
}

// RecordRedirectClick 递增短链点击计数并聚合当天点击数。
func (s *AnalyticsService) RecordRedirectClick(redirectID uint, now time.Time) error {
	if redirectID == 0 {
		return ErrRedirectNotFound
	}

	result := s.db.Model(&db.Redirect{}).
		Where("id = ?", redirectID).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return fmt.Errorf("record redirect click: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRedirectNotFound
	}

	s.upsertDaily(&db.RedirectClickDaily{RedirectID: redirectID, Day: DayKey(now), Count: 1},
		"redirect_id", "redirect click", redirectID)
	return nil
}

// upsertDaily 以单条 insert-or-increment 维护按天聚合行。
// 不允许读-改-写：并发记录同一主体同一天时由数据库冲突子句保证不丢增量。
// 失败只告警，聚合链路不反向影响主流程。
func (s *AnalyticsService) upsertDaily(record interface{}, subjectColumn, family string, subjectID uint) {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: subjectColumn}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(record).Error
	if err != nil {
		s.log.Warnw("daily rollup upsert failed", "family", family, "subject_id", subjectID, "error", err)
	}
}

// StatPoint 表示统计序列中的单天数据。
type StatPoint struct {
	Day   string `json:"day"`
	Count uint64 `json:"count"`
}

// PageViewSeries 返回页面在区间内逐天的浏览数，缺失天补零。
func (s *AnalyticsService) PageViewSeries(pageID uint, from, to string) ([]StatPoint, error) {
	return s.dailySeries(&db.PageViewDaily{}, "page_id", pageID, from, to)
}

// LinkClickSeries 返回链接在区间内逐天的点击数，缺失天补零。
func (s *AnalyticsService) LinkClickSeries(linkID uint, from, to string) ([]StatPoint, error) {
	return s.dailySeries(&db.LinkClickDaily{}, "link_id", linkID, from, to)
}

// RedirectClickSeries 返回短链在区间内逐天的点击数，缺失天补零。
func (s *AnalyticsService) RedirectClickSeries(redirectID uint, from, to string) ([]StatPoint, error) {
	return s.dailySeries(&db.RedirectClickDaily{}, "redirect_id", redirectID, from, to)
}

type dailyRow struct {
	Day   string
	Count uint64
}

// dailySeries 先用零值铺满闭区间内的每一天，再叠加聚合表中的真实行，
// 保证输出序列连续无缺天。
func (s *AnalyticsService) dailySeries(model interface{}, subjectColumn string, subjectID uint, from, to string) ([]StatPoint, error) {
	start, end, err := DateRange(from, to, DefaultSeriesDays)
	if err != nil {
		return nil, err
	}

	keys := DaySeries(start, end)
	counts := make(map[string]uint64, len(keys))
	for _, key := range keys {
		counts[key] = 0
	}

	var rows []dailyRow
	if err := s.db.Model(model).
		Select("day, count").
		Where(fmt.Sprintf("%s = ?", subjectColumn), subjectID).
		Where("day BETWEEN ? AND ?", DayKey(start), DayKey(end)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load daily rollups: %w", err)
	}

	for _, row := range rows {
		if _, ok := counts[row.Day]; ok {
			counts[row.Day] = row.Count
		}
	}

	series := make([]StatPoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, StatPoint{Day: key, Count: counts[key]})
	}
	return series, nil
}

// OwnerOverview 汇总所有者维度的基础统计。
type OwnerOverview struct {
	TotalViews  uint64        `json:"totalViews"`
	TotalClicks uint64        `json:"totalClicks"`
	PageCount   int64         `json:"pageCount"`
	TopPages    []TopPageStat `json:"topPages"`
}

// TopPageStat 描述浏览量靠前的页面。
type TopPageStat struct {
	PageID uint   `json:"pageId"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Views  uint64 `json:"views"`
}

// Overview 汇总指定所有者的浏览、点击与热门页面。
func (s *AnalyticsService) Overview(ownerID uint, limit int) (OwnerOverview, error) {
	if limit <= 0 {
		limit = 5
	}

	var overview OwnerOverview

	var totals struct {
		Views  uint64
		Clicks uint64
	}
	if err := s.db.Model(&db.Page{}).
		Select("COALESCE(SUM(views), 0) AS views").
		Where("owner_id = ?", ownerID).
		Scan(&totals).Error; err != nil {
		return overview, fmt.Errorf("sum page views: %w", err)
	}
	overview.TotalViews = totals.Views

	var clicks struct {
		Clicks uint64
	}
	if err := s.db.Model(&db.Link{}).
		Select("COALESCE(SUM(clicks), 0) AS clicks").
		Where("owner_id = ?", ownerID).
		Scan(&clicks).Error; err != nil {
		return overview, fmt.Errorf("sum link clicks: %w", err)
	}
	overview.TotalClicks = clicks.Clicks

	if err := s.db.Model(&db.Page{}).
		Where("owner_id = ?", ownerID).
		Count(&overview.PageCount).Error; err != nil {
		return overview, fmt.Errorf("count pages: %w", err)
	}

	var topPages []TopPageStat
	if err := s.db.Model(&db.Page{}).
		Select("id AS page_id, title, slug, views").
		Where("owner_id = ?", ownerID).
		Order("views DESC").
		Limit(limit).
		Scan(&topPages).Error; err != nil {
		return overview, fmt.Errorf("list top pages: %w", err)
	}
	overview.TopPages = topPages

	return overview, nil
}
