package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-docstore-repo/internal/core/config"
	"go-docstore-repo/internal/core/logger"
)

// Logger builds the process logger from cfg and routes the std log package into it.
func Logger(cfg *config.Config) (*zap.Logger, func()) {
	var (
		l     *zap.Logger
		flush func()
	)
	if r := cfg.Log.Rotate; r.Enable {
		l, flush = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   r.Filename,
			MaxSizeMB:  r.MaxSizeMB,
			MaxBackups: r.MaxBackups,
			MaxAgeDays: r.MaxAgeDays,
			Compress:   r.Compress,
		})
	} else {
		l, flush = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	return l.With(zap.String("app", cfg.App.Name)), func() {
		undo()
		flush()
	}
}
