package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// TokenClaims is what the identity provider asserts about a user. Sub is the
// provider-issued DID that keys the profiles table.
type TokenClaims struct {
	Sub         string
	Username    string
	DisplayName string
	ExpiresAt   time.Time
}

// Service validates bearer tokens issued by the identity provider. There is
// no local signup flow: accounts exist at the provider and profiles are
// created here on first sync.
type Service struct {
	jwtSecret []byte
}

// NewService creates a new authentication service
func NewService(jwtSecret []byte) *Service {
	return &Service{jwtSecret: jwtSecret}
}

// ValidateToken verifies an HS256 bearer token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	result := &TokenClaims{Sub: sub}
	if username, ok := claims["username"].(string); ok {
		result.Username = username
	}
	if displayName, ok := claims["display_name"].(string); ok {
		result.DisplayName = displayName
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}

// LookupProfile fetches the profile for a DID. Returns ErrProfileNotFound
// when the user has authenticated but never synced.
func (s *Service) LookupProfile(did string) (*models.Profile, error) {
	var profile models.Profile
	err := database.DB.Where("id = ?", did).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

// GenerateToken signs a token for a DID. Used by the seed tooling and tests;
// real tokens come from the identity provider.
func (s *Service) GenerateToken(did, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      did,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
