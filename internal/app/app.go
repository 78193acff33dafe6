package app

import (
	"errors"

	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/middleware"
	"go-hris-workflow/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores and mounts every module on router. The
// returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L()

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	// 2. Register Modules & Routes
	m, err := buildModules(cfg, sqlDB, gormDB, redisClient, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	router.Use(middleware.RequestID())
	registerRoutes(router, m, redisClient, logger)

	return cleanup, nil
}
