// Package middleware provides the fiber handlers that gate routes behind
// session tokens and role checks. Claims land in Locals under
// showroom.ClaimsContextKey; role gates re-read live account state so a
// disabled account loses privileged access before its token expires.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	showroom "github.com/goliatone/go-showroom"
)

// TokenValidator validates raw bearer tokens without an import cycle back
// into the token service.
type TokenValidator interface {
	Validate(token string) (showroom.AuthClaims, error)
}

// LiveAccountChecker re-reads the account behind a claim set and rejects
// tokens for accounts that were disabled after issuance.
type LiveAccountChecker interface {
	RequireLiveAccount(ctx context.Context, accountID string) error
}

// Config configures the Authenticated middleware.
type Config struct {
	// Validator is required.
	Validator TokenValidator
	// AuthScheme defaults to "Bearer".
	AuthScheme string
}

// Authenticated returns a middleware that requires a valid bearer token and
// stores the claims in Locals.
func Authenticated(cfg Config) fiber.Handler {
	if cfg.Validator == nil {
		panic("middleware: Authenticated requires a token validator")
	}

	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = "Bearer"
	}

	return func(c *fiber.Ctx) error {
		raw, err := tokenFromHeader(c, scheme)
		if err != nil {
			return showroom.RespondError(c, showroom.ErrUnauthorized)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return showroom.RespondError(c, showroom.ErrUnauthorized)
		}

		c.Locals(showroom.ClaimsContextKey, claims)

		return c.Next()
	}
}

// ClaimsFromCtx returns the claims stored by Authenticated, or nil.
func ClaimsFromCtx(c *fiber.Ctx) showroom.AuthClaims {
	claims, ok := c.Locals(showroom.ClaimsContextKey).(showroom.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAdmin gates a route behind the admin-or-above role. The account is
// re-read from the store so stale tokens for disabled accounts are refused.
func RequireAdmin(checker LiveAccountChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil {
			return showroom.RespondError(c, showroom.ErrUnauthorized)
		}

		if !claims.IsAtLeast(showroom.RoleAdmin) {
			return showroom.RespondError(c, showroom.ErrForbidden)
		}

		if err := checker.RequireLiveAccount(c.UserContext(), claims.AccountID()); err != nil {
			return showroom.RespondError(c, err)
		}

		return c.Next()
	}
}

// RequireSuperAdmin gates a route behind the superadmin role, with the same
// live account re-read.
func RequireSuperAdmin(checker LiveAccountChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil {
			return showroom.RespondError(c, showroom.ErrUnauthorized)
		}

		if !claims.HasRole(showroom.RoleSuperAdmin) {
			return showroom.RespondError(c, showroom.ErrForbidden)
		}

		if err := checker.RequireLiveAccount(c.UserContext(), claims.AccountID()); err != nil {
			return showroom.RespondError(c, err)
		}

		return c.Next()
	}
}

func tokenFromHeader(c *fiber.Ctx, scheme string) (string, error) {
	auth := c.Get(fiber.HeaderAuthorization)
	l := len(scheme)
	if len(auth) > l+1 && strings.EqualFold(auth[:l], scheme) {
		return strings.TrimSpace(auth[l+1:]), nil
	}
	return "", showroom.ErrInvalidToken
}
