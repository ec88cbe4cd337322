package usage

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// Repository defines the interface for usage ledger persistence.
//
// TryIncrement is the engine's quota primitive: a single atomic
// check-and-increment on (accountID, period.Key, counter). The check and
// the increment must be inseparable from the perspective of any concurrent
// caller on the same key; implementations push the condition into the store
// rather than doing a read followed by a write. A limit of
// types.UnlimitedQuota bypasses the check but still increments.
type Repository interface {
	// TryIncrement atomically increments the counter if it is below limit,
	// creating the period's row on first touch. It returns the counter value
	// after the operation and whether the increment was applied.
	TryIncrement(ctx context.Context, accountID string, period Period, counter types.CounterName, limit int) (int, bool, error)

	// Get returns the usage record for the given period key,
	// or ErrNotFound when the account has no usage in that period yet.
	Get(ctx context.Context, accountID string, periodKey string) (*Record, error)

	// ListByAccount returns all usage records for an account,
	// newest period first. Old periods remain queryable after rollover.
	ListByAccount(ctx context.Context, accountID string) ([]*Record, error)
}
