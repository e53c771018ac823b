package showroom_test

import (
	"context"
	"strings"
	"sync"
	"time"

	showroom "github.com/goliatone/go-showroom"
)

// memoryAccounts is an in-memory AccountStore for tests.
type memoryAccounts struct {
	mu       sync.Mutex
	accounts []*showroom.Account
}

func newMemoryAccounts(accounts ...*showroom.Account) *memoryAccounts {
	return &memoryAccounts{accounts: accounts}
}

func (m *memoryAccounts) All(ctx context.Context) ([]*showroom.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*showroom.Account, len(m.accounts))
	for i, a := range m.accounts {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (m *memoryAccounts) FindByEmail(ctx context.Context, email string) (*showroom.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, showroom.ErrAccountNotFound
}

func (m *memoryAccounts) FindByID(ctx context.Context, id string) (*showroom.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, showroom.ErrAccountNotFound
}

func (m *memoryAccounts) Insert(ctx context.Context, account *showroom.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return showroom.ErrEmailTaken
		}
	}
	cp := *account
	m.accounts = append(m.accounts, &cp)
	return nil
}

func (m *memoryAccounts) Update(ctx context.Context, id string, mutate func(*showroom.Account) error) (*showroom.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.ID == id {
			if err := mutate(a); err != nil {
				return nil, err
			}
			cp := *a
			return &cp, nil
		}
	}
	return nil, showroom.ErrAccountNotFound
}

// get returns the stored account without the copy, for assertions on
// persisted state.
func (m *memoryAccounts) get(id string) *showroom.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
