package showroom

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the verified content of a session token.
type AuthClaims interface {
	AccountID() string
	Email() string
	Role() Role
	HasRole(role Role) bool
	IsAtLeast(minRole Role) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// ClaimsContextKey is where request middleware stores verified claims.
const ClaimsContextKey = "auth_claims"

// JWTClaims is the concrete claim set signed into session tokens.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"userId,omitempty"`
	UserEmail string `json:"email,omitempty"`
	UserRole  Role   `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// AccountID returns the account the token was issued for.
func (c *JWTClaims) AccountID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Email returns the email claim.
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Role returns the role claim.
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// HasRole checks if the token asserts exactly the given role.
func (c *JWTClaims) HasRole(role Role) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the asserted role meets the minimum required level.
func (c *JWTClaims) IsAtLeast(minRole Role) bool {
	return c.UserRole.IsAtLeast(minRole)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
