package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/linkdeck/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaintenanceCheck 描述一次请求参与维护判定的全部输入。
type MaintenanceCheck struct {
	Path                string
	IsDashboard         bool
	CallerIP            string
	CallerRole          string
	HasBypassPermission bool
}

// IsBlocked 判定请求是否被维护模式拦截。判定顺序固定且不可调换：
// 豁免权限、IP 白名单、角色白名单永远先于全局/计划开关；
// ActivePages 是豁免清单，只在维护已生效时参与判定，自身不能触发维护。
func IsBlocked(cfg db.MaintenanceConfig, check MaintenanceCheck, now time.Time) bool {
	if check.HasBypassPermission {
		return false
	}
	if containsString(cfg.AllowedIPs, check.CallerIP) {
		return false
	}
	if containsString(cfg.AllowedRoles, check.CallerRole) {
		return false
	}

	scheduledActive := cfg.ScheduledStart != nil && cfg.ScheduledEnd != nil &&
		!now.Before(*cfg.ScheduledStart) && !now.After(*cfg.ScheduledEnd)

	active := cfg.Global || scheduledActive || (check.IsDashboard && cfg.Dashboard)
	if !active {
		return false
	}

	if containsString(cfg.ActivePages, check.Path) {
		return false
	}

	return true
}

func containsString(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// MaintenanceInput 用于更新维护配置。
type MaintenanceInput struct {
	Global         bool
	Dashboard      bool
	ActivePages    []string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AllowedIPs     []string
	AllowedRoles   []string
}

// MaintenanceService 提供维护配置单例的读取与更新。
type MaintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService 构造 MaintenanceService。
func NewMaintenanceService(gdb *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: gdb}
}

// Get 读取维护配置，未初始化时返回全部关闭的默认配置。
func (s *MaintenanceService) Get() (db.MaintenanceConfig, error) {
	var cfg db.MaintenanceConfig
	if err := s.db.First(&cfg, db.MaintenanceConfigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.MaintenanceConfig{ID: db.MaintenanceConfigID}, nil
		}
		return cfg, fmt.Errorf("load maintenance config: %w", err)
	}
	return cfg, nil
}

// Update 以固定主键 upsert 维护配置单例，并发首次写入时由冲突子句保证幂等。
func (s *MaintenanceService) Update(input MaintenanceInput) (db.MaintenanceConfig, error) {
	cfg := db.MaintenanceConfig{
		ID:             db.MaintenanceConfigID,
		Global:         input.Global,
		Dashboard:      input.Dashboard,
		ActivePages:    input.ActivePages,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		AllowedIPs:     input.AllowedIPs,
		AllowedRoles:   input.AllowedRoles,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&cfg).Error; err != nil {
		return cfg, fmt.Errorf("save maintenance config: %w", err)
	}

	return cfg, nil
}
