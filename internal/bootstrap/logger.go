package bootstrap

import (
	"staffly/internal/shared/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger and installs it as the zap global.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if cfg.IsProduction() {
		build = zap.NewProduction
	}

	logger, err := build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
