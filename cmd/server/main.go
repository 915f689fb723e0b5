package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/config"
	"github.com/linkdeck/internal/db"
	"github.com/linkdeck/internal/handler"
	"github.com/linkdeck/internal/logger"
	"github.com/linkdeck/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Logger.Sync()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Sugar.Fatalw("failed to initialize database", "error", err)
	}

	// 可选的超级账号引导
	if err := db.EnsureOwner(cfg.SuperRootHandle, cfg.SuperRootPassword, db.RoleAdmin); err != nil {
		logger.Sugar.Fatalw("failed to ensure super root owner", "error", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, logger.Sugar)
	r := router.SetupRouter(cfg, api)

	logger.Sugar.Infow("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Sugar.Fatalw("failed to run server", "error", err)
	}
}
