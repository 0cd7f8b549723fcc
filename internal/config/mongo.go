package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"contact_keeper/internal/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds document database connection parameters
type MongoConfig struct {
	URI      string
	Database string
}

// LoadMongoConfig loads MongoDB configuration from environment variables
func LoadMongoConfig() (*MongoConfig, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI not set in environment")
	}
	return &MongoConfig{URI: uri, Database: getEnv("MONGO_DATABASE", "contact_keeper")}, nil
}

// ConnectMongo opens a client and verifies the primary is reachable
func ConnectMongo(ctx context.Context, cfg *MongoConfig, log logging.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info(ctx, "connected to MongoDB", "database", cfg.Database)
	return client, client.Database(cfg.Database), nil
}
