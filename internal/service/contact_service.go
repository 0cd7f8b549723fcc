package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contact_keeper/internal/model"
	"contact_keeper/internal/repository"
)

// ContactService defines operations on a user's contacts
type ContactService interface {
	List(ctx context.Context, userID string) ([]model.Contact, error)
	Create(ctx context.Context, userID string, req model.CreateContactRequest) (*model.Contact, error)
	Update(ctx context.Context, userID, contactID string, req model.UpdateContactRequest) (*model.Contact, error)
	Delete(ctx context.Context, userID, contactID string) error
	// CheckOwner returns ErrContactNotFound or ErrForbidden unless userID owns contactID.
	CheckOwner(ctx context.Context, userID, contactID string) error
}

type contactService struct {
	repo repository.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) List(ctx context.Context, userID string) ([]model.Contact, error) {
	contacts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user contacts from repo: %w", err)
	}
	return contacts, nil
}

func (s *contactService) Create(ctx context.Context, userID string, req model.CreateContactRequest) (*model.Contact, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		verr.add("name", MsgNameRequired, req.Name)
	}
	contactType := req.Type
	if contactType == "" {
		contactType = model.ContactTypePersonal
	}
	if !model.IsValidContactType(contactType) {
		verr.add("type", MsgInvalidType, req.Type)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Type:      contactType,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}
	return contact, nil
}

// Update checks existence and ownership before looking at the request, so a
// non-owner gets ErrForbidden whatever the body holds. Nothing is written unless it validates.
func (s *contactService) Update(ctx context.Context, userID, contactID string, req model.UpdateContactRequest) (*model.Contact, error) {
	existing, err := s.ownedContact(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		verr.add("name", MsgNameRequired, *req.Name)
	}
	if req.Type != nil && !model.IsValidContactType(*req.Type) {
		verr.add("type", MsgInvalidType, *req.Type)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	// Apply updates
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Type != nil {
		existing.Type = *req.Type
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	return existing, nil
}

func (s *contactService) Delete(ctx context.Context, userID, contactID string) error {
	if _, err := s.ownedContact(ctx, userID, contactID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, contactID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	return nil
}

func (s *contactService) CheckOwner(ctx context.Context, userID, contactID string) error {
	_, err := s.ownedContact(ctx, userID, contactID)
	return err
}

// ownedContact loads a contact and checks it belongs to userID; existence is checked first.
func (s *contactService) ownedContact(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	if contact.UserID != userID {
		return nil, ErrForbidden
	}
	return contact, nil
}
