package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// ServerConfig holds everything cmd/server needs
type ServerConfig struct {
	Port          string
	DBDriver      string
	Postgres      *DBConfig
	Mongo         *MongoConfig
	JWTSecret     string
	JWTExpiration time.Duration
	CORSOrigins   []string
	LogLevel      string
	GinMode       string
}

// ClientConfig holds everything cmd/client needs
type ClientConfig struct {
	APIURL       string
	DBPath       string
	AlertTimeout time.Duration
	LogLevel     string
}

// LoadEnv loads .env style files into the process environment. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadServerConfig reads the server configuration from environment variables
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:        getEnv("SERVER_PORT", "5000"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		GinMode:     os.Getenv("GIN_MODE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set in environment")
	}

	exp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "1h"))
	if err != nil || exp <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION %q: must be a positive duration", os.Getenv("JWT_EXPIRATION"))
	}
	cfg.JWTExpiration = exp

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.Postgres, err = LoadDBConfig(); err != nil {
			return nil, err
		}
	case DriverMongo:
		if cfg.Mongo, err = LoadMongoConfig(); err != nil {
			return nil, err
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (want %s, %s or %s)", cfg.DBDriver, DriverPostgres, DriverMongo, DriverMemory)
	}

	return cfg, nil
}

// LoadClientConfig reads the terminal client configuration from environment variables
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIURL:   strings.TrimRight(getEnv("CONTACT_KEEPER_URL", "http://localhost:5000"), "/"),
		DBPath:   getEnv("CONTACT_KEEPER_DB", "contact_keeper.db"),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}

	timeout, err := time.ParseDuration(getEnv("ALERT_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid ALERT_TIMEOUT %q: must be a positive duration", os.Getenv("ALERT_TIMEOUT"))
	}
	cfg.AlertTimeout = timeout

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
