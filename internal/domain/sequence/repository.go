package sequence

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// Repository defines the interface for sequence counter persistence.
//
// Next is the engine's numbering primitive: a single atomic
// read-add-write on (accountID, kind). Two concurrent calls for the same key
// must never observe or return the same value; implementations use one
// conditional store operation, never a read-then-write pair separated by a
// suspension point. Numbers are never reused, so a caller that fails after
// allocation simply leaves a gap.
type Repository interface {
	// Next allocates and returns the next value for the counter, creating it
	// with lastIssued = startingNumber - 1 on first use so the first issued
	// number equals startingNumber. prefix and startingNumber only seed a new
	// counter; they have no effect on an existing one, whose stored prefix is
	// returned in the allocation.
	Next(ctx context.Context, accountID string, kind types.DocumentKind, prefix string, startingNumber int) (*Allocation, error)

	// Get returns the counter for the given key,
	// or ErrNotFound when no document of that kind has been issued yet.
	Get(ctx context.Context, accountID string, kind types.DocumentKind) (*Counter, error)
}

// SettingsRepository persists per-account numbering preferences
type SettingsRepository interface {
	GetSettings(ctx context.Context, accountID string, kind types.DocumentKind) (*Settings, error)
	UpsertSettings(ctx context.Context, settings *Settings) error
}
