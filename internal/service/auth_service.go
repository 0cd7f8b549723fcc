package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/model"
	"contact_keeper/internal/repository"
	"contact_keeper/internal/utils"
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	log      logging.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, log logging.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		log:      log,
	}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account and signs a token for it
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		verr.add("name", MsgUserNameRequired, req.Name)
	}
	// bcrypt only hashes the first 72 bytes and refuses anything longer
	if len(req.Password) > utils.MaxPasswordBytes {
		verr.add("password", MsgPasswordTooLong, nil)
	}
	if err := verr.orNil(); err != nil {
		return nil, "", err
	}

	email := NormalizeEmail(req.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		s.log.Error(ctx, "user created but token generation failed", "user_id", user.ID, "error", err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", ErrIncorrectPassword
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// CurrentUser loads the profile behind a verified token
func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
