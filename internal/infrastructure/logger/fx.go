package logger

import (
	"context"

	"quotedesk/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	log, err := New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Environment))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}
