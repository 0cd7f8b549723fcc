package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPostgresEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "keeper")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "contacts")
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRATION", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	setPostgresEnv(t)

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "host=localhost port=5432 user=keeper password=secret dbname=contacts sslmode=disable", cfg.Postgres.DSN)
}

func TestLoadServerConfig_Memory(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://keeper.example.com")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, []string{"http://localhost:3000", "https://keeper.example.com"}, cfg.CORSOrigins)
	assert.Nil(t, cfg.Postgres)
	assert.Nil(t, cfg.Mongo)
}

func TestLoadServerConfig_Mongo(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Mongo)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "contact_keeper", cfg.Mongo.Database)
}

func TestLoadServerConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": "", "DB_DRIVER": "memory"}},
		{"bad expiration", map[string]string{"JWT_SECRET": "x", "DB_DRIVER": "memory", "JWT_EXPIRATION": "soon"}},
		{"negative expiration", map[string]string{"JWT_SECRET": "x", "DB_DRIVER": "memory", "JWT_EXPIRATION": "-1h"}},
		{"unknown driver", map[string]string{"JWT_SECRET": "x", "DB_DRIVER": "oracle"}},
		{"mongo without uri", map[string]string{"JWT_SECRET": "x", "DB_DRIVER": "mongo", "MONGO_URI": ""}},
		{"postgres without host", map[string]string{"JWT_SECRET": "x", "DB_DRIVER": "postgres", "DB_HOST": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_EXPIRATION", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadServerConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("CONTACT_KEEPER_URL", "")
	t.Setenv("CONTACT_KEEPER_DB", "")
	t.Setenv("ALERT_TIMEOUT", "")

	cfg, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.APIURL)
	assert.Equal(t, "contact_keeper.db", cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.AlertTimeout)

	t.Setenv("CONTACT_KEEPER_URL", "https://keeper.example.com/")
	t.Setenv("ALERT_TIMEOUT", "2s")
	cfg, err = LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://keeper.example.com", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.AlertTimeout)

	t.Setenv("ALERT_TIMEOUT", "never")
	_, err = LoadClientConfig()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CK_TEST_FROM_DOTENV=hello\n"), 0o600))
	t.Setenv("CK_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("CK_TEST_FROM_DOTENV"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "hello", os.Getenv("CK_TEST_FROM_DOTENV"))

	assert.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")))
}
