package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// AuthService exchanges client credentials for access tokens.
type AuthService struct {
	clientID   string
	secretHash string
	tokenMgr   *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		clientID:   cfg.ClientID,
		secretHash: cfg.ClientSecretHash,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// IssueToken verifies the client credentials against the configured bcrypt hash.
func (s *AuthService) IssueToken(_ context.Context, clientID, clientSecret string) (string, time.Time, error) {
	if clientID == "" || clientSecret == "" {
		return "", time.Time{}, apperrors.NewValidationError("client_id and client_secret required", nil)
	}
	if s.clientID == "" || s.secretHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("client credentials not configured")
	}
	idMatch := subtle.ConstantTimeCompare([]byte(clientID), []byte(s.clientID)) == 1
	secretErr := auth.ComparePassword(s.secretHash, clientSecret)
	if !idMatch || secretErr != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid client credentials")
	}
	return s.tokenMgr.GenerateToken(clientID)
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
