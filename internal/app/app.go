package app

import (
	"context"

	"staffly/internal/shared/config"
	"staffly/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the stores, migrates when asked to and mounts every module
// on router. The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.DB.AutoMigrate {
		if err := Migrate(context.Background(), gormDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("database schema migrated")
	}

	// Redis is optional. Without it status counts are read from the database
	// and payroll generation runs without idempotency keys.
	var rdb redis.Cmdable
	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
	} else {
		rdb = redisClient
		logger.Info("redis connection established")
	}

	if err := registerModules(router, cfg, gormDB, rdb, logger); err != nil {
		_ = sqlDB.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = sqlDB.Close()
	}
	return cleanup, nil
}
