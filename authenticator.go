package showroom

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// LoginResult is the outcome of a successful authentication step. When
// MustChangePassword is set no token was issued; AccountID identifies the
// account that has to rotate its credential first.
type LoginResult struct {
	Token              string   `json:"token,omitempty"`
	Account            *Profile `json:"account,omitempty"`
	MustChangePassword bool     `json:"mustChangePassword,omitempty"`
	AccountID          string   `json:"accountId,omitempty"`
}

// Authenticator drives login, password rotation, and identity lookups over
// the accounts collection.
type Authenticator struct {
	accounts   AccountStore
	tokens     TokenService
	policy     *LifecyclePolicy
	logger     Logger
	now        func() time.Time
	bcryptCost int
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(accounts AccountStore, tokens TokenService) *Authenticator {
	return &Authenticator{
		accounts:   accounts,
		tokens:     tokens,
		policy:     NewLifecyclePolicy(),
		logger:     defLogger{},
		now:        time.Now,
		bcryptCost: DefaultBcryptCost,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithClock overrides the time source, useful for tests.
func (a *Authenticator) WithClock(clock func() time.Time) *Authenticator {
	if clock != nil {
		a.now = clock
	}
	return a
}

// WithLifecyclePolicy overrides the lifecycle policy.
func (a *Authenticator) WithLifecyclePolicy(policy *LifecyclePolicy) *Authenticator {
	if policy != nil {
		a.policy = policy
	}
	return a
}

// WithBcryptCost overrides the hash cost used for rotated passwords.
func (a *Authenticator) WithBcryptCost(cost int) *Authenticator {
	if cost > 0 {
		a.bcryptCost = cost
	}
	return a
}

// Login verifies credentials and evaluates the lifecycle policy. A correct
// password on an account flagged for rotation yields a MustChangePassword
// result instead of a token.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := a.accounts.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := a.now()
	outcome := a.policy.EvaluateLogin(account, password, now)

	switch outcome {
	case OutcomeAutoDisable:
		a.logger.Warn("disabling account %s: default credential kept past grace window", account.ID)
		if err := a.disable(ctx, account.ID); err != nil {
			return nil, err
		}
		return nil, ErrAccountAutoDisabled
	case OutcomeDisabled:
		return nil, ErrAccountDisabled
	case OutcomeInvalidCredentials:
		return nil, ErrInvalidCredentials
	case OutcomeMustChangePassword:
		return &LoginResult{MustChangePassword: true, AccountID: account.ID}, nil
	}

	updated, err := a.accounts.Update(ctx, account.ID, func(acc *Account) error {
		loginAt := now
		acc.LastLogin = &loginAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := a.tokens.Generate(updated)
	if err != nil {
		return nil, err
	}

	profile := updated.Profile()
	return &LoginResult{Token: token, Account: &profile}, nil
}

// ChangePassword verifies the current credential, enforces the strength
// policy on the replacement, and issues a fresh session. Rotating the
// password clears the MustChangePassword flag and closes the grace window.
func (a *Authenticator) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) (*LoginResult, error) {
	if err := ValidateNewPassword(newPassword); err != nil {
		return nil, err
	}

	account, err := a.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(currentPassword, account.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPasswordCost(newPassword, a.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash new password")
	}

	now := a.now()
	updated, err := a.accounts.Update(ctx, accountID, func(acc *Account) error {
		acc.PasswordHash = hash
		acc.MustChangePassword = false
		loginAt := now
		acc.LastLogin = &loginAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := a.tokens.Generate(updated)
	if err != nil {
		return nil, err
	}

	profile := updated.Profile()
	return &LoginResult{Token: token, Account: &profile}, nil
}

// CurrentIdentity resolves the live account behind an authenticated session,
// re-running the access checks so a lapsed grace window disables the account
// on its very next call. Absent that transition it causes no state change.
func (a *Authenticator) CurrentIdentity(ctx context.Context, accountID string) (*AccountSummary, error) {
	account, err := a.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	switch a.policy.EvaluateAccess(account, a.now()) {
	case OutcomeAutoDisable:
		a.logger.Warn("disabling account %s: default credential kept past grace window", account.ID)
		if err := a.disable(ctx, account.ID); err != nil {
			return nil, err
		}
		return nil, ErrAccountAutoDisabled
	case OutcomeDisabled:
		return nil, ErrAccountDisabled
	}

	summary := account.Summary()
	return &summary, nil
}

// RequireLiveAccount re-reads the account and applies the inactive check.
// Session tokens stay structurally valid for their full window, so privileged
// paths must consult live state before acting.
func (a *Authenticator) RequireLiveAccount(ctx context.Context, accountID string) error {
	account, err := a.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountDisabled
		}
		return err
	}

	if !account.IsActive {
		return ErrAccountDisabled
	}

	return nil
}

func (a *Authenticator) disable(ctx context.Context, id string) error {
	_, err := a.accounts.Update(ctx, id, func(acc *Account) error {
		acc.IsActive = false
		return nil
	})
	return err
}
