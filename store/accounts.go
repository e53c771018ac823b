package store

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	showroom "github.com/goliatone/go-showroom"
)

// CollectionAccounts is the document name backing the accounts collection.
const CollectionAccounts = "users"

// Accounts implements showroom.AccountStore over a JSON document.
type Accounts struct {
	store *Store
}

// NewAccounts returns a new Accounts collection
func NewAccounts(store *Store) *Accounts {
	return &Accounts{store: store}
}

// All returns every account in the collection.
func (a *Accounts) All(ctx context.Context) ([]*showroom.Account, error) {
	accounts := []*showroom.Account{}
	if err := a.store.Load(CollectionAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindByEmail looks an account up by email, case-insensitively. A read
// failure is reported as-is, never as a missing account.
func (a *Accounts) FindByEmail(ctx context.Context, email string) (*showroom.Account, error) {
	accounts, err := a.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}

	return nil, showroom.ErrAccountNotFound
}

// FindByID looks an account up by ID.
func (a *Accounts) FindByID(ctx context.Context, id string) (*showroom.Account, error) {
	accounts, err := a.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if account.ID == id {
			return account, nil
		}
	}

	return nil, showroom.ErrAccountNotFound
}

// Insert appends a new account, enforcing email uniqueness.
func (a *Accounts) Insert(ctx context.Context, account *showroom.Account) error {
	accounts := []*showroom.Account{}
	return a.store.Update(CollectionAccounts, &accounts, func() error {
		for _, existing := range accounts {
			if strings.EqualFold(existing.Email, account.Email) {
				return showroom.ErrEmailTaken
			}
		}
		accounts = append(accounts, account)
		return nil
	})
}

// Update applies mutate to the account with the given ID and persists the
// whole collection. If mutate fails nothing is written.
func (a *Accounts) Update(ctx context.Context, id string, mutate func(*showroom.Account) error) (*showroom.Account, error) {
	accounts := []*showroom.Account{}
	var target *showroom.Account

	err := a.store.Update(CollectionAccounts, &accounts, func() error {
		for _, account := range accounts {
			if account.ID == id {
				target = account
				break
			}
		}
		if target == nil {
			return showroom.ErrAccountNotFound
		}
		return mutate(target)
	})
	if err != nil {
		if errors.Is(err, showroom.ErrAccountNotFound) {
			return nil, showroom.ErrAccountNotFound
		}
		return nil, err
	}

	return target, nil
}
