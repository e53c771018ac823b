package showroom

import (
	"github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned for a bad email/password pair. It is also
// returned for unknown emails so login cannot be used to probe which
// addresses have accounts.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is returned when the account behind a request is
// inactive, whether disabled administratively or by the lifecycle policy.
var ErrAccountDisabled = errors.New("account disabled", errors.CategoryAuth).
	WithTextCode("ACCOUNT_DISABLED").
	WithCode(errors.CodeForbidden)

// ErrAccountAutoDisabled is the variant reported when the lifecycle policy
// disables the account during the current request: the grace window lapsed
// with the default credential still in place.
var ErrAccountAutoDisabled = errors.New(
	"account has been disabled: the default password was not changed within the grace window",
	errors.CategoryAuth).
	WithTextCode("ACCOUNT_DISABLED").
	WithCode(errors.CodeForbidden)

// ErrInvalidToken covers every session token verification failure. Expired,
// malformed, and badly signed tokens are indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(errors.CodeUnauthorized)

// ErrUnauthorized is returned when a request carries no usable credential.
var ErrUnauthorized = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode("UNAUTHORIZED").
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when a verified session lacks the required role.
var ErrForbidden = errors.New("insufficient role", errors.CategoryAuth).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrAccountNotFound is returned by account lookups that miss.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode("ACCOUNT_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrEmailTaken guards the case-insensitive email uniqueness invariant.
var ErrEmailTaken = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode("EMAIL_TAKEN").
	WithCode(errors.CodeConflict)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the vault-level verification failure. The
// authenticator maps it to ErrInvalidCredentials at the boundary.
var ErrMismatchedHashAndPassword = errors.New("password does not match stored hash", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)
