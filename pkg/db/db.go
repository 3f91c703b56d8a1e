// Package db wires the gorm connection into the fx graph.
package db

import (
	"context"
	"errors"

	"github.com/sitebooks/sitebooks/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open establishes the Postgres connection and registers a shutdown hook.
func Open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("missing_database_dsn")
	}

	conn, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			log.Info("closing database connection")
			return sqlDB.Close()
		},
	})
	return conn, nil
}
