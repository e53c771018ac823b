package showroom

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	// BootstrapPassword seeds the first superadmin account.
	BootstrapPassword = "admin123"
	// ProvisionedPassword is assigned to every admin account created through
	// provisioning. The owner has to rotate it within the grace window.
	ProvisionedPassword = "12345"
)

// CreateAccountMessage provisions a new admin account.
type CreateAccountMessage struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`

	// OnCreated, when set, runs with the stored account after a successful
	// insert.
	OnCreated func(*Account) `json:"-"`
}

// Type returns the type for the message
func (e CreateAccountMessage) Type() string { return "account.create" }

// Validate will validate the message fields
func (e CreateAccountMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.FullName, validation.Required),
		validation.Field(&e.Email, validation.Required, is.Email),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid account payload").
			WithTextCode("VALIDATION").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

// CreateAccountHandler provisions admin accounts with the shared default
// password and the rotation flag set.
type CreateAccountHandler struct {
	accounts   AccountStore
	logger     Logger
	now        func() time.Time
	bcryptCost int
}

// NewCreateAccountHandler returns a new CreateAccountHandler
func NewCreateAccountHandler(accounts AccountStore) *CreateAccountHandler {
	return &CreateAccountHandler{
		accounts:   accounts,
		logger:     defLogger{},
		now:        time.Now,
		bcryptCost: DefaultBcryptCost,
	}
}

func (h *CreateAccountHandler) WithLogger(logger Logger) *CreateAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock overrides the time source, useful for tests.
func (h *CreateAccountHandler) WithClock(clock func() time.Time) *CreateAccountHandler {
	if clock != nil {
		h.now = clock
	}
	return h
}

// WithBcryptCost overrides the hash cost for provisioned credentials.
func (h *CreateAccountHandler) WithBcryptCost(cost int) *CreateAccountHandler {
	if cost > 0 {
		h.bcryptCost = cost
	}
	return h
}

// Execute will create the account or return an error
func (h *CreateAccountHandler) Execute(ctx context.Context, event CreateAccountMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateAccountHandler) execute(ctx context.Context, event CreateAccountMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	hash, err := HashPasswordCost(ProvisionedPassword, h.bcryptCost)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash default password")
	}

	createdAt := h.now()
	account := &Account{
		ID:                 accountID(event.Email),
		FullName:           event.FullName,
		Email:              strings.ToLower(event.Email),
		PasswordHash:       hash,
		Role:               RoleAdmin,
		IsActive:           true,
		MustChangePassword: true,
		CreatedAt:          &createdAt,
	}

	if err := h.accounts.Insert(ctx, account); err != nil {
		return err
	}

	h.logger.Info("provisioned admin account %s (%s)", account.ID, account.Email)

	if event.OnCreated != nil {
		event.OnCreated(account)
	}

	return nil
}

// EnsureSuperAdminMessage requests that a superadmin account exist.
type EnsureSuperAdminMessage struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Type returns the type for the message
func (e EnsureSuperAdminMessage) Type() string { return "account.ensure_superadmin" }

// EnsureSuperAdminHandler creates the bootstrap superadmin on first start.
// It is a no-op when any superadmin already exists, regardless of email.
type EnsureSuperAdminHandler struct {
	accounts   AccountStore
	logger     Logger
	now        func() time.Time
	bcryptCost int
}

// NewEnsureSuperAdminHandler returns a new EnsureSuperAdminHandler
func NewEnsureSuperAdminHandler(accounts AccountStore) *EnsureSuperAdminHandler {
	return &EnsureSuperAdminHandler{
		accounts:   accounts,
		logger:     defLogger{},
		now:        time.Now,
		bcryptCost: DefaultBcryptCost,
	}
}

func (h *EnsureSuperAdminHandler) WithLogger(logger Logger) *EnsureSuperAdminHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock overrides the time source, useful for tests.
func (h *EnsureSuperAdminHandler) WithClock(clock func() time.Time) *EnsureSuperAdminHandler {
	if clock != nil {
		h.now = clock
	}
	return h
}

// WithBcryptCost overrides the hash cost for the bootstrap credential.
func (h *EnsureSuperAdminHandler) WithBcryptCost(cost int) *EnsureSuperAdminHandler {
	if cost > 0 {
		h.bcryptCost = cost
	}
	return h
}

// Execute will ensure a superadmin account exists
func (h *EnsureSuperAdminHandler) Execute(ctx context.Context, event EnsureSuperAdminMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return h.execute(ctx, event)
	}
}

func (h *EnsureSuperAdminHandler) execute(ctx context.Context, event EnsureSuperAdminMessage) error {
	accounts, err := h.accounts.All(ctx)
	if err != nil {
		return err
	}

	for i := range accounts {
		if accounts[i].Role == RoleSuperAdmin {
			return nil
		}
	}

	hash, err := HashPasswordCost(BootstrapPassword, h.bcryptCost)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash bootstrap password")
	}

	createdAt := h.now()
	account := &Account{
		ID:                 accountID(event.Email),
		FullName:           event.FullName,
		Email:              strings.ToLower(event.Email),
		PasswordHash:       hash,
		Role:               RoleSuperAdmin,
		IsActive:           true,
		MustChangePassword: true,
		CreatedAt:          &createdAt,
	}

	if err := h.accounts.Insert(ctx, account); err != nil {
		return err
	}

	h.logger.Warn("bootstrap superadmin %s created with the default password, rotate it now", account.Email)

	return nil
}

// accountID derives a deterministic ID from the email, falling back to a
// random UUID if derivation fails.
func accountID(email string) string {
	if id, err := hashid.NewUUID(strings.ToLower(email)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
