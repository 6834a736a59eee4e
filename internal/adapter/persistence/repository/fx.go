package repository

import (
	"context"
	"fmt"
	"time"

	"quotedesk/internal/config"
	"quotedesk/internal/infrastructure/database"
	"quotedesk/internal/usecase/interfaces"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("record.store",
	fx.Provide(Provide),
)

// Provide selects the record store named by QUOTEDESK_STORE.
func Provide(cfg config.Config, log *zap.Logger) (interfaces.IRecordStore, error) {
	switch cfg.Store {
	case config.StoreDynamoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ddb, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		log.Info("using dynamodb record store", zap.String("table", cfg.DynamoTable))
		return NewDynamoRecordStore(ddb, cfg.DynamoTable, log), nil
	default:
		log.Debug("using file record store", zap.String("dir", cfg.DataDir))
		return NewFileRecordStore(cfg.DataDir, log), nil
	}
}
