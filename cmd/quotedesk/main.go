package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quotedesk/internal/adapter/cli"
	"quotedesk/internal/adapter/export"
	"quotedesk/internal/adapter/persistence/repository"
	"quotedesk/internal/clock"
	"quotedesk/internal/config"
	"quotedesk/internal/infrastructure/logger"
	"quotedesk/internal/usecase"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func options() fx.Option {
	return fx.Options(
		config.Module,
		logger.Module,
		clock.Module,
		repository.Module,
		usecase.Module,
		export.Module,
		cli.Module,
	)
}

func run(args []string) int {
	var handler *cli.Handler
	app := fx.New(
		options(),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Populate(&handler),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "quotedesk: startup: %v\n", err)
		return cli.ExitCode(err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "quotedesk: start: %v\n", err)
		return cli.ExitInternal
	}

	code := handler.Run(context.Background(), args)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	_ = app.Stop(stopCtx)
	return code
}
