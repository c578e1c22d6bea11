// Package app wires configuration, logging and the DynamoDB table into the
// handlers. Each Lambda main calls it once per cold start.
package app

import (
	"context"
	"os"

	"financebackend/internal/config"
	"financebackend/internal/db"
	"financebackend/internal/handlers"

	"github.com/asecurityteam/logevent/v2"
)

type missingSetting struct {
	Setting string `logevent:"setting"`
	Message string `logevent:"message,default=missing-setting"`
}

func NewLogger(cfg config.Config) logevent.Logger {
	return logevent.New(logevent.Config{
		Level:  cfg.LogLevel,
		Output: os.Stdout,
	})
}

// NewRecords builds the record handlers for cfg. Unset table settings are
// logged but not fatal; the store call reports them per request.
func NewRecords(ctx context.Context, cfg config.Config) (*handlers.Records, error) {
	logger := NewLogger(cfg)
	logger.SetField("service", cfg.ServiceName)
	if cfg.TableName == "" {
		logger.Warn(missingSetting{Setting: "TABLE_NAME"})
	}
	if cfg.PrimaryKey == "" {
		logger.Warn(missingSetting{Setting: "PRIMARY_KEY"})
	}

	client, err := db.NewDynamoClient(ctx, cfg.DynamoEndpoint)
	if err != nil {
		return nil, err
	}
	return handlers.NewRecords(db.NewTable(client, cfg), cfg, logger), nil
}
