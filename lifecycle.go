package showroom

import "time"

// GraceWindow is how long a provisioned account may keep its default
// credential before it is disabled on its next access attempt.
const GraceWindow = 24 * time.Hour

// LifecycleOutcome is the decision produced by evaluating an account.
type LifecycleOutcome int

const (
	// OutcomeAllow lets the request proceed.
	OutcomeAllow LifecycleOutcome = iota
	// OutcomeMustChangePassword blocks token issuance until the credential
	// is rotated.
	OutcomeMustChangePassword
	// OutcomeAutoDisable means the grace window lapsed with a default
	// credential still in place; the caller must persist IsActive=false.
	OutcomeAutoDisable
	// OutcomeDisabled rejects an inactive account.
	OutcomeDisabled
	// OutcomeInvalidCredentials rejects a bad password.
	OutcomeInvalidCredentials
)

func (o LifecycleOutcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeMustChangePassword:
		return "must_change_password"
	case OutcomeAutoDisable:
		return "auto_disable"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

// LifecyclePolicy evaluates account state against wall-clock time. It is
// pure: persisting an OutcomeAutoDisable transition is the caller's job, so
// the precedence order below stays auditable in one place.
type LifecyclePolicy struct {
	isDefault func(hash string) bool
}

// NewLifecyclePolicy returns a policy backed by the known-default predicate.
func NewLifecyclePolicy() *LifecyclePolicy {
	return &LifecyclePolicy{isDefault: IsKnownDefaultHash}
}

// WithDefaultDetector overrides the known-default predicate. Tests use this
// to avoid paying bcrypt cost on every evaluation.
func (p *LifecyclePolicy) WithDefaultDetector(fn func(hash string) bool) *LifecyclePolicy {
	if fn != nil {
		p.isDefault = fn
	}
	return p
}

// EvaluateAccess runs the checks applied on every authenticated access:
// grace-window expiry first, then the inactive check. Re-running it on each
// identity lookup is what disables a dormant account on its very next API
// call, without any scheduled job.
func (p *LifecyclePolicy) EvaluateAccess(account *Account, now time.Time) LifecycleOutcome {
	if account == nil {
		return OutcomeDisabled
	}

	if p.graceWindowLapsed(account, now) {
		return OutcomeAutoDisable
	}

	if !account.IsActive {
		return OutcomeDisabled
	}

	return OutcomeAllow
}

// EvaluateLogin runs the full ordered login evaluation. The precedence is
// load-bearing: a lapsed grace window wins over everything, a disabled
// account wins over credential errors, and the rotation requirement blocks
// token issuance even when the supplied password is correct.
func (p *LifecyclePolicy) EvaluateLogin(account *Account, password string, now time.Time) LifecycleOutcome {
	if account == nil {
		return OutcomeInvalidCredentials
	}

	if p.graceWindowLapsed(account, now) {
		return OutcomeAutoDisable
	}

	if !account.IsActive {
		return OutcomeDisabled
	}

	if ComparePasswordAndHash(password, account.PasswordHash) != nil {
		return OutcomeInvalidCredentials
	}

	if account.MustChangePassword || p.isDefault(account.PasswordHash) {
		return OutcomeMustChangePassword
	}

	return OutcomeAllow
}

// graceWindowLapsed applies only to accounts still flagged for rotation with
// a known creation time, and only while the stored hash is a provisioning
// default: rotating the password ends the window.
func (p *LifecyclePolicy) graceWindowLapsed(account *Account, now time.Time) bool {
	if !account.MustChangePassword || account.CreatedAt == nil {
		return false
	}

	if now.Sub(*account.CreatedAt) < GraceWindow {
		return false
	}

	return p.isDefault(account.PasswordHash)
}
