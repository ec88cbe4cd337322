package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/billforge/billforge/internal/domain/usage"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// InMemoryUsageStore implements usage.Repository with the same atomicity
// contract as the postgres implementation: the quota check and the increment
// happen under one lock, so concurrent callers racing at the limit behave
// exactly as they would against the conditional SQL update.
type InMemoryUsageStore struct {
	mu      sync.Mutex
	records map[string]*usage.Record
}

// NewInMemoryUsageStore creates a new in-memory usage store
func NewInMemoryUsageStore() *InMemoryUsageStore {
	return &InMemoryUsageStore{
		records: make(map[string]*usage.Record),
	}
}

func (s *InMemoryUsageStore) key(ctx context.Context, accountID, periodKey string) string {
	return fmt.Sprintf("%s/%s/%s", types.GetTenantID(ctx), accountID, periodKey)
}

func (s *InMemoryUsageStore) TryIncrement(ctx context.Context, accountID string, period usage.Period, counter types.CounterName, limit int) (int, bool, error) {
	if err := counter.Validate(); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.key(ctx, accountID, period.Key)
	record, exists := s.records[key]
	if !exists {
		record = &usage.Record{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USAGE_RECORD),
			AccountID:   accountID,
			PeriodKey:   period.Key,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
	}

	current := record.CounterValue(counter)
	if limit != types.UnlimitedQuota && current >= limit {
		return current, false, nil
	}

	switch counter {
	case types.CounterInvoicesCreated:
		record.InvoicesCreated++
	case types.CounterReceiptsGenerated:
		record.ReceiptsGenerated++
	case types.CounterEmailsSent:
		record.EmailsSent++
	}
	s.records[key] = record

	return record.CounterValue(counter), true, nil
}

func (s *InMemoryUsageStore) Get(ctx context.Context, accountID string, periodKey string) (*usage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[s.key(ctx, accountID, periodKey)]
	if !exists {
		return nil, ierr.NewError("usage record not found").
			WithHint("No usage recorded for this billing period yet").
			WithReportableDetails(map[string]any{
				"account_id": accountID,
				"period_key": periodKey,
			}).
			Mark(ierr.ErrNotFound)
	}

	copied := *record
	return &copied, nil
}

func (s *InMemoryUsageStore) ListByAccount(ctx context.Context, accountID string) ([]*usage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantID := types.GetTenantID(ctx)
	var result []*usage.Record
	for _, record := range s.records {
		if record.AccountID == accountID && record.TenantID == tenantID {
			copied := *record
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart.After(result[j].PeriodStart)
	})

	return result, nil
}

// Clear removes all records from the store
func (s *InMemoryUsageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*usage.Record)
}
