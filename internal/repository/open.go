package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"propertyhub/internal/config"
	"propertyhub/internal/db"
)

// Store is an open connection to the configured backend with its repositories.
type Store struct {
	*Repositories
	Driver string
	close  func(context.Context) error
}

// Open connects to the store selected by cfg.StoreDriver and prepares its schema.
// With cfg.ResetDB set the existing data is dropped first.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL, config.DriverSQLite:
		gormDB, err := openGorm(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.ResetDB {
			log.Warn("RESET_DB=true, dropping all tables")
			if err := db.Reset(gormDB); err != nil {
				return nil, fmt.Errorf("reset schema: %w", err)
			}
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
		return &Store{
			Repositories: NewGormRepositories(gormDB),
			Driver:       cfg.StoreDriver,
			close: func(context.Context) error {
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMongo:
		database, client, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if cfg.ResetDB {
			log.Warn("RESET_DB=true, dropping database", zap.String("database", cfg.MongoDB))
			if err := database.Drop(ctx); err != nil {
				_ = client.Disconnect(ctx)
				return nil, fmt.Errorf("drop database: %w", err)
			}
		}
		if err := EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Repositories: NewMongoRepositories(database),
			Driver:       cfg.StoreDriver,
			close:        client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func openGorm(cfg *config.Config) (*gorm.DB, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		return db.NewSQLite(cfg.SQLitePath)
	}
	return db.NewMySQL(cfg.MySQLDSN)
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}
