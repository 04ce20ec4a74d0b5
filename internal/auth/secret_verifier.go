package auth

import (
	"errors"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
)

// SecretVerifier verifies HS256 tokens signed with a shared secret, as
// issued by the web app's session layer.
type SecretVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewSecretVerifier creates a verifier for tokens signed with secret
func NewSecretVerifier(secret string, logger *slog.Logger) (*SecretVerifier, error) {
	if len(secret) < 32 {
		return nil, errors.New("JWT secret must be at least 32 bytes")
	}
	return &SecretVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates the signature, expiry and subject of a token.
func (v *SecretVerifier) VerifyToken(tokenString string) (*models.UserClaims, error) {
	claims := &models.UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if !checkClaims(claims) {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op.
func (v *SecretVerifier) Close() error {
	return nil
}
