package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/billforge/billforge/internal/domain/sequence"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// InMemorySequenceStore implements sequence.Repository and
// sequence.SettingsRepository. Allocation holds one lock across the whole
// read-add-write, mirroring the atomic upsert the postgres repository runs.
type InMemorySequenceStore struct {
	mu       sync.Mutex
	counters map[string]*sequence.Counter
	settings map[string]*sequence.Settings
}

// NewInMemorySequenceStore creates a new in-memory sequence store
func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{
		counters: make(map[string]*sequence.Counter),
		settings: make(map[string]*sequence.Settings),
	}
}

func (s *InMemorySequenceStore) key(ctx context.Context, accountID string, kind types.DocumentKind) string {
	return fmt.Sprintf("%s/%s/%s", types.GetTenantID(ctx), accountID, kind)
}

func (s *InMemorySequenceStore) Next(ctx context.Context, accountID string, kind types.DocumentKind, prefix string, startingNumber int) (*sequence.Allocation, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if startingNumber < 1 {
		startingNumber = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.key(ctx, accountID, kind)
	counter, exists := s.counters[key]
	if !exists {
		// First allocation: create at startingNumber - 1 then issue
		counter = &sequence.Counter{
			AccountID:      accountID,
			DocumentKind:   kind,
			Prefix:         prefix,
			LastIssued:     startingNumber - 1,
			StartingNumber: startingNumber,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		s.counters[key] = counter
	}

	counter.LastIssued++

	return &sequence.Allocation{
		Value:  counter.LastIssued,
		Prefix: counter.Prefix,
	}, nil
}

func (s *InMemorySequenceStore) Get(ctx context.Context, accountID string, kind types.DocumentKind) (*sequence.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, exists := s.counters[s.key(ctx, accountID, kind)]
	if !exists {
		return nil, ierr.NewError("sequence counter not found").
			WithHint("No documents of this kind have been issued yet").
			WithReportableDetails(map[string]any{
				"account_id":    accountID,
				"document_kind": string(kind),
			}).
			Mark(ierr.ErrNotFound)
	}

	copied := *counter
	return &copied, nil
}

func (s *InMemorySequenceStore) GetSettings(ctx context.Context, accountID string, kind types.DocumentKind) (*sequence.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, exists := s.settings[s.key(ctx, accountID, kind)]
	if !exists {
		return nil, ierr.NewError("numbering settings not found").
			WithHint("No numbering preferences saved for this account").
			Mark(ierr.ErrNotFound)
	}

	copied := *settings
	return &copied, nil
}

func (s *InMemorySequenceStore) UpsertSettings(ctx context.Context, settings *sequence.Settings) error {
	if settings == nil {
		return ierr.NewError("settings cannot be nil").
			WithHint("Settings are required").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *settings
	s.settings[s.key(ctx, settings.AccountID, settings.DocumentKind)] = &copied
	return nil
}

// Clear removes all counters and settings from the store
func (s *InMemorySequenceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*sequence.Counter)
	s.settings = make(map[string]*sequence.Settings)
}
