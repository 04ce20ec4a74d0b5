// Package auth verifies the bearer tokens presented to the API.
package auth

import "educreate/internal/domain/models"

// JWTVerifier validates a token and returns its claims. Implementations
// return domain.ErrUnauthorized for any invalid, expired or unsigned token.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.UserClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

// checkClaims applies the checks shared by every verifier.
func checkClaims(claims *models.UserClaims) bool {
	return claims.Subject != ""
}
