package testutil

import (
	"context"

	"github.com/billforge/billforge/internal/domain/account"
	ierr "github.com/billforge/billforge/internal/errors"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
}

// NewInMemoryAccountStore creates a new in-memory account store
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account](),
	}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").
			WithHint("Account is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, a.ID, a); err != nil {
		return ierr.WithError(err).
			WithHint("An account with this id already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", id).
			WithReportableDetails(map[string]any{
				"account_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return a, nil
}

func (s *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").
			WithHint("Account is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, a.ID, a); err != nil {
		return ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", a.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
