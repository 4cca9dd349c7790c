package main

import (
	"staffly/internal/app"
	"staffly/internal/bootstrap"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/config"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
