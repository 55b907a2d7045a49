package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the payload of a signed bearer token. The token proves
// identity without a server-side session; expiry is the only invalidation
// mechanism.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
