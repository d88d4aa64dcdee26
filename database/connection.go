package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"pms-chatbot/config"
)

// Connect opens the transcript database selected by cfg. A "none" database
// is not an error; the chatbot simply keeps no transcript.
func Connect(cfg *config.Config, log *zap.Logger) error {
	switch cfg.Database.Type {
	case "mongodb":
		return ConnectMongoDB(cfg, log)
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// Disconnect closes database connection
func Disconnect(cfg *config.Config, log *zap.Logger) error {
	switch cfg.Database.Type {
	case "mongodb":
		return DisconnectMongoDB(log)
	default:
		return nil
	}
}

// HealthCheck performs a database health check
func HealthCheck(ctx context.Context, cfg *config.Config) error {
	switch cfg.Database.Type {
	case "mongodb":
		if mongoClient == nil {
			return fmt.Errorf("mongodb client not initialized")
		}
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return mongoClient.Ping(ctx, readpref.Primary())
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}
