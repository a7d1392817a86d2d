package auth

import "github.com/gotcha-app/backend/internal/models"

// ServiceInterface defines the contract for token validation and profile
// lookup. This enables mocking for unit tests without a real database.
type ServiceInterface interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
	LookupProfile(did string) (*models.Profile, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
