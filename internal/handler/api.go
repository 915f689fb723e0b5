package handler

import (
	"github.com/linkdeck/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API 聚合各 HTTP 处理器共享的依赖。
type API struct {
	db          *gorm.DB
	resolver    *service.PageResolveService
	links       *service.LinkService
	redirects   *service.RedirectService
	analytics   *service.AnalyticsService
	maintenance *service.MaintenanceService
	log         *zap.SugaredLogger
}

// NewAPI 构建处理器集合并装配共享服务。
func NewAPI(db *gorm.DB, log *zap.SugaredLogger) *API {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &API{
		db:          db,
		resolver:    service.NewPageResolveService(db),
		links:       service.NewLinkService(db),
		redirects:   service.NewRedirectService(db),
		analytics:   service.NewAnalyticsService(db, log),
		maintenance: service.NewMaintenanceService(db),
		log:         log,
	}
}

// DB 暴露底层 gorm 实例，供测试与脚本使用。
func (a *API) DB() *gorm.DB {
	return a.db
}
