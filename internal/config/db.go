package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"contact_keeper/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	return &DBConfig{DSN: dsn}, nil
}

const (
	connectRetries  = 5
	connectInterval = 5 * time.Second
)

// ConnectDB establishes a connection to the PostgreSQL database, retrying while it comes up
func ConnectDB(ctx context.Context, cfg *DBConfig, log logging.Logger) (*pgxpool.Pool, error) {
	var err error
	for i := 0; i < connectRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Info(ctx, "connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn(ctx, "failed to connect to database",
			"attempt", i+1, "max_attempts", connectRetries, "retry_in", connectInterval, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", connectRetries, err)
}
