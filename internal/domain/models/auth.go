package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT claim set issued by the web app's auth provider.
type UserClaims struct {
	jwt.RegisteredClaims        // sub, iss, aud, exp, iat, ...
	Email                string `json:"email,omitempty"`
	Name                 string `json:"name,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *UserClaims) GetUserID() string {
	return c.Subject
}
