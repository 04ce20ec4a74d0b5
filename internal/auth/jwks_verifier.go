package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
)

// JWKSVerifier verifies asymmetrically signed tokens against a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier whose keys are fetched from jwksURL.
// keyfunc caches the key set and refreshes it in the background until Close.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, cancel: cancel, logger: logger}, nil
}

// VerifyToken validates the signature, expiry and subject of a token.
// Only RS256 and ES256 are accepted, preventing algorithm confusion.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.UserClaims, error) {
	claims := &models.UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
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

// Close stops the background key refresh.
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}
