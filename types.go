package showroom

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package depends on.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetBcryptCost() int
	GetIssuer() string
	GetAuthScheme() string
	GetDataDir() string
}

// AccountStore is the slice of the document store the auth subsystem needs.
// Every mutation replaces the whole accounts collection snapshot; Update runs
// its mutate callback inside the store's read-modify-write section, and a
// mutate error leaves the collection untouched.
type AccountStore interface {
	All(ctx context.Context) ([]*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Insert(ctx context.Context, account *Account) error
	Update(ctx context.Context, id string, mutate func(*Account) error) (*Account, error)
}

// DefaultLogger returns the fallback stdout logger.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SHOWROOM "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SHOWROOM "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SHOWROOM "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SHOWROOM "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
