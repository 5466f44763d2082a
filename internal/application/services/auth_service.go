package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/logger"
)

// Claims are the JWT claims of an API token
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed API token
type IssuedToken struct {
	Token     string    `json:"access_token"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService signs and checks the bearer tokens of API clients. There are
// no user accounts; a token names the client it was issued to.
type AuthService struct {
	jwtConfig config.JWTConfig
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		jwtConfig: jwtConfig,
		logger:    logger.WithComponent("auth_service"),
	}
}

// Issue signs a token for subject
func (s *AuthService) Issue(subject string, now time.Time) (*IssuedToken, error) {
	if !s.jwtConfig.AuthEnabled() {
		return nil, entities.NewError(entities.CodeValidation, "jwt secret is not configured")
	}
	if subject == "" {
		subject = "focusqueue-client"
	}

	tokenID := uuid.NewString()
	expiresAt := now.Add(s.jwtConfig.ExpiresIn)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   subject,
			Issuer:    s.jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Infow("API token issued", "subject", subject, "token_id", tokenID, "expires_at", expiresAt)
	return &IssuedToken{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks signature, issuer and expiry
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer))
	if err != nil {
		return nil, entities.WrapError(entities.CodeAuthRequired, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, entities.NewError(entities.CodeAuthRequired, "invalid token claims")
	}
	return claims, nil
}
