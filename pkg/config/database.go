package config

import (
	"context"
	"fmt"

	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/anonto42/socialfeed/backend/internal/repositories/boltrepo"
	"github.com/anonto42/socialfeed/backend/internal/repositories/mongorepo"
	"github.com/anonto42/socialfeed/backend/internal/repositories/pgrepo"
	"github.com/anonto42/socialfeed/backend/pkg/log"
)

// OpenStore connects the store selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *Config) (repositories.Store, error) {
	logger := log.WithComponent("store")

	switch cfg.StoreDriver {
	case DriverBolt:
		store, err := boltrepo.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.BoltPath).Msg("Opened bolt database")
		return store, nil

	case DriverMongo:
		store, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("Successfully connected to MongoDB")
		return store, nil

	case DriverPostgres:
		store, err := pgrepo.Open(cfg.PostgresConnStr)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("Successfully connected to PostgreSQL")
		return store, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// CloseStore closes the store, logging instead of failing.
func CloseStore(ctx context.Context, store repositories.Store) {
	if err := store.Close(ctx); err != nil {
		log.Errorf("Error closing store", err)
		return
	}
	log.Info("Store closed.")
}
