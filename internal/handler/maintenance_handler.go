package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/db"
	"github.com/linkdeck/internal/service"
)

// MaintenanceGate 在常规路由之前判定请求是否被维护模式拦截。
// 每个被拦截范围内的请求都会重新读取配置单例。
func (a *API) MaintenanceGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := a.maintenance.Get()
		if err != nil {
			// 配置读取失败时放行，维护模式不应让站点整体不可用。
			a.log.Errorw("load maintenance config failed", "error", err)
			c.Next()
			return
		}

		check := service.MaintenanceCheck{
			Path:        c.Request.URL.Path,
			IsDashboard: strings.HasPrefix(c.Request.URL.Path, "/admin"),
			CallerIP:    c.ClientIP(),
		}

		if owner := a.currentOwner(c); owner != nil {
			check.CallerRole = owner.Role
			check.HasBypassPermission = owner.Role == db.RoleAdmin
		}

		if service.IsBlocked(cfg, check, time.Now()) {
			respondOutcome(c, http.StatusServiceUnavailable, "maintenance", "maintenance_active")
			c.Abort()
			return
		}

		c.Next()
	}
}

type maintenanceRequest struct {
	Global         bool       `json:"global"`
	Dashboard      bool       `json:"dashboard"`
	ActivePages    []string   `json:"activePages"`
	ScheduledStart *time.Time `json:"scheduledStart"`
	ScheduledEnd   *time.Time `json:"scheduledEnd"`
	AllowedIPs     []string   `json:"allowedIps"`
	AllowedRoles   []string   `json:"allowedRoles"`
}

// GetMaintenance 读取维护配置单例。
func (a *API) GetMaintenance(c *gin.Context) {
	cfg, err := a.maintenance.Get()
	if err != nil {
		a.log.Errorw("load maintenance config failed", "error", err)
		respondError(c, http.StatusInternalServerError, "读取维护配置失败")
		return
	}

	c.JSON(http.StatusOK, maintenanceView(cfg))
}

// UpdateMaintenance 更新维护配置单例，仅管理员可调用。
func (a *API) UpdateMaintenance(c *gin.Context) {
	owner := a.currentOwner(c)
	if owner == nil || owner.Role != db.RoleAdmin {
		respondError(c, http.StatusForbidden, "需要管理员权限")
		return
	}

	var req maintenanceRequest
	if !bindJSON(c, &req, "请求体格式错误") {
		return
	}

	cfg, err := a.maintenance.Update(service.MaintenanceInput{
		Global:         req.Global,
		Dashboard:      req.Dashboard,
		ActivePages:    req.ActivePages,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		AllowedIPs:     req.AllowedIPs,
		AllowedRoles:   req.AllowedRoles,
	})
	if err != nil {
		a.log.Errorw("update maintenance config failed", "error", err)
		respondError(c, http.StatusInternalServerError, "更新维护配置失败")
		return
	}

	c.JSON(http.StatusOK, maintenanceView(cfg))
}

func maintenanceView(cfg db.MaintenanceConfig) gin.H {
	return gin.H{
		"global":         cfg.Global,
		"dashboard":      cfg.Dashboard,
		"activePages":    cfg.ActivePages,
		"scheduledStart": cfg.ScheduledStart,
		"scheduledEnd":   cfg.ScheduledEnd,
		"allowedIps":     cfg.AllowedIPs,
		"allowedRoles":   cfg.AllowedRoles,
	}
}
