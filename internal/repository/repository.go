package repository

import (
	"context"
	"errors"

	"contact_keeper/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned by mutations that matched no row
	ErrNotFound = errors.New("record not found")
)

// DBTX is the subset of pgx used by the repositories; satisfied by *pgxpool.Pool, pgx.Tx and pgxmock
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user data.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ContactRepository defines operations for contact data.
// FindByID returns (nil, nil) when nothing matches; Update and Delete return ErrNotFound.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	FindByUser(ctx context.Context, userID string) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id, userID string) error
}
