package repository

import (
	"context"
	"errors"
	"fmt"

	"contact_keeper/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type contactRepository struct {
	db DBTX
}

// NewContactRepository creates a Postgres-backed ContactRepository
func NewContactRepository(db DBTX) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a new contact and assigns its ID
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	sql := `INSERT INTO contacts (id, user_id, name, email, phone, type, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Type, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact regardless of owner; ownership is checked by the caller
func (r *contactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	c := &model.Contact{}
	sql := `SELECT id, user_id, name, email, phone, type, created_at
            FROM contacts WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Type, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return c, nil
}

// FindByUser retrieves all contacts of a user, newest first
func (r *contactRepository) FindByUser(ctx context.Context, userID string) ([]model.Contact, error) {
	sql := `SELECT id, user_id, name, email, phone, type, created_at
            FROM contacts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by user: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

// Update overwrites the mutable fields of an existing contact
func (r *contactRepository) Update(ctx context.Context, c *model.Contact) error {
	sql := `UPDATE contacts
            SET name = $1, email = $2, phone = $3, type = $4
            WHERE id = $5 AND user_id = $6`
	cmdTag, err := r.db.Exec(ctx, sql, c.Name, c.Email, c.Phone, c.Type, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a contact owned by userID
func (r *contactRepository) Delete(ctx context.Context, id, userID string) error {
	sql := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
