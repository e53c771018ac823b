package showroom

import "time"

// Account is the persisted identity record. JSON field names match the
// accounts collection on disk, including "password" for the stored hash.
type Account struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"password"`
	Role               Role       `json:"role"`
	IsActive           bool       `json:"isActive"`
	MustChangePassword bool       `json:"mustChangePassword"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	LastLogin          *time.Time `json:"lastLogin"`
}

// Profile is the public shape of an account returned with a fresh session.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Profile returns the account stripped down to its public fields.
func (a *Account) Profile() Profile {
	return Profile{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// AccountSummary is the sanitized administrative view of an account. It never
// carries the password hash.
type AccountSummary struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	Role               Role       `json:"role"`
	IsActive           bool       `json:"isActive"`
	MustChangePassword bool       `json:"mustChangePassword"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	LastLogin          *time.Time `json:"lastLogin"`
}

// Summary returns the sanitized view of the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:                 a.ID,
		FullName:           a.FullName,
		Email:              a.Email,
		Role:               a.Role,
		IsActive:           a.IsActive,
		MustChangePassword: a.MustChangePassword,
		CreatedAt:          a.CreatedAt,
		LastLogin:          a.LastLogin,
	}
}
