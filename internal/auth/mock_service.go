package auth

import (
	"github.com/gotcha-app/backend/internal/models"
)

// MockService is a test double for ServiceInterface. Tokens map directly to
// claims and profiles are held in memory.
type MockService struct {
	// Tokens maps token strings to the claims they should produce
	Tokens map[string]*TokenClaims

	// Profiles maps DIDs to profiles returned by LookupProfile
	Profiles map[string]*models.Profile
}

// NewMockService creates an empty mock
func NewMockService() *MockService {
	return &MockService{
		Tokens:   make(map[string]*TokenClaims),
		Profiles: make(map[string]*models.Profile),
	}
}

// AddUser registers a token that authenticates as the given profile
func (m *MockService) AddUser(token string, profile *models.Profile) {
	m.Tokens[token] = &TokenClaims{Sub: profile.ID, Username: profile.Username}
	m.Profiles[profile.ID] = profile
}

func (m *MockService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims, ok := m.Tokens[tokenString]
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *MockService) LookupProfile(did string) (*models.Profile, error) {
	profile, ok := m.Profiles[did]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

var _ ServiceInterface = (*MockService)(nil)
