package repository

import (
	"context"
	"sort"
	"sync"

	"contact_keeper/internal/model"

	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an in-process UserRepository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type storedContact struct {
	model.Contact
	seq int64
}

type memoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]storedContact
	seq      int64
}

// NewMemoryContactRepository creates an in-process ContactRepository
func NewMemoryContactRepository() ContactRepository {
	return &memoryContactRepository{contacts: make(map[string]storedContact)}
}

func (r *memoryContactRepository) Create(_ context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.seq++
	r.contacts[c.ID] = storedContact{Contact: *c, seq: r.seq}
	return nil
}

func (r *memoryContactRepository) FindByID(_ context.Context, id string) (*model.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	c := stored.Contact
	return &c, nil
}

func (r *memoryContactRepository) FindByUser(_ context.Context, userID string) ([]model.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := []storedContact{}
	for _, c := range r.contacts {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	// newest first; insertion order breaks timestamp ties
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].seq > owned[j].seq
	})

	contacts := make([]model.Contact, 0, len(owned))
	for _, c := range owned {
		contacts = append(contacts, c.Contact)
	}
	return contacts, nil
}

func (r *memoryContactRepository) Update(_ context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contacts[c.ID]
	if !ok || existing.UserID != c.UserID {
		return ErrNotFound
	}
	r.contacts[c.ID] = storedContact{Contact: *c, seq: existing.seq}
	return nil
}

func (r *memoryContactRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contacts[id]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}
