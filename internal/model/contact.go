package model

import (
	"strings"
	"time"
)

const (
	ContactTypePersonal = "personal"
	ContactTypeBusiness = "business"
)

// Contact is an address book entry owned by exactly one user
type Contact struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"date"`
}

// Matches reports whether name or email contains text, ignoring case.
func (c Contact) Matches(text string) bool {
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(c.Name), needle) ||
		strings.Contains(strings.ToLower(c.Email), needle)
}

// CreateContactRequest is used for creating a new contact
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type" binding:"omitempty,oneof=personal business"`
}

// UpdateContactRequest carries only the fields the caller wants changed
type UpdateContactRequest struct {
	Name  *string `json:"name,omitempty"` // Pointers to allow partial updates
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Type  *string `json:"type,omitempty"`
}

// IsValidContactType reports whether t is one of the known contact types
func IsValidContactType(t string) bool {
	return t == ContactTypePersonal || t == ContactTypeBusiness
}
