package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued token when none is configured
const DefaultTokenTTL = time.Hour

var (
	ErrTokenMissing = errors.New("no auth token")
	ErrTokenInvalid = errors.New("token is not valid")
)

// UserClaim is the identity embedded in every token
type UserClaim struct {
	ID string `json:"id"`
}

// JWTClaims custom claims for JWT
type JWTClaims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey string
	ttl       time.Duration
}

// NewJWTUtil creates a new JWTUtil. A zero ttl falls back to DefaultTokenTTL.
func NewJWTUtil(secretKey string, ttl time.Duration) *JWTUtil {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTUtil{secretKey: secretKey, ttl: ttl}
}

// GenerateToken generates a new JWT token for the given user
func (ju *JWTUtil) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		User: UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies signature and expiry and returns the embedded claims.
// Every failure wraps ErrTokenInvalid; an expired token also matches jwt.ErrTokenExpired.
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.User.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
