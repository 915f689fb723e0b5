package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/config"
	"github.com/linkdeck/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("linkdeck_session", store))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	r.Use(cors.New(corsConfig))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 后台管理路由，维护门控覆盖 dashboard 范围
	admin := r.Group("/admin", api.MaintenanceGate())
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		// 需要认证的后台路由
		authed := admin.Group("/api")
		authed.Use(handler.AuthRequired())
		{
			authed.GET("/overview", api.Overview)
			authed.GET("/pages/:id/views/series", api.PageViewSeries)
			authed.GET("/links/:id/clicks/series", api.LinkClickSeries)
			authed.GET("/redirects/:id/clicks/series", api.RedirectClickSeries)
			authed.GET("/maintenance", api.GetMaintenance)
			authed.PUT("/maintenance", api.UpdateMaintenance)
		}
	}

	// 公开路由：短链、链接跳转与页面解析，全部经过维护门控
	public := r.Group("", api.MaintenanceGate())
	{
		public.GET("/r/:slug", api.RedirectBySlug)
		public.GET("/l/:id", api.RedirectByLink)
		public.POST("/l/:id/click", handler.RateLimit(cfg.RatePerMinute), api.RecordLinkClick)
		public.GET("/:handle", api.ShowPage)
		public.GET("/:handle/:identifier", api.ShowPage)
	}

	return r
}
