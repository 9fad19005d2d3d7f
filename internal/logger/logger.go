package logger

import (
	"shop-backend/internal/config"

	"go.uber.org/zap"
)

// Init builds the process logger from the log config and installs it as
// the zap global.
func Init(cfg config.Log) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err == nil {
		zapConfig.Level = level
	}
	zapConfig.OutputPaths = []string{"stdout"}

	log, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
