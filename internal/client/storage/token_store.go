// Package storage persists client session data in a local SQLite file.
package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// TokenKey is the key the session token lives under
const TokenKey = "token"

// setting is a single key/value row
type setting struct {
	Name  string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (setting) TableName() string { return "settings" }

// TokenStore is a durable key/value store holding the auth token
type TokenStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path. Use ":memory:" for an ephemeral store.
func Open(path string) (*TokenStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open token store %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&setting{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate token store: %w", err)
	}
	return &TokenStore{db: db}, nil
}

// Token returns the stored token and whether one exists
func (s *TokenStore) Token(ctx context.Context) (string, bool, error) {
	var row setting
	err := s.db.WithContext(ctx).First(&row, "name = ?", TokenKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read token: %w", err)
	}
	return row.Value, row.Value != "", nil
}

// SetToken stores token, replacing any previous one
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	row := setting{Name: TokenKey, Value: token}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// ClearToken removes the stored token; clearing an empty store is not an error
func (s *TokenStore) ClearToken(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&setting{}, "name = ?", TokenKey).Error; err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func (s *TokenStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
