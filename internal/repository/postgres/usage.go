package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/billforge/billforge/internal/domain/usage"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/cockroachdb/errors"
)

type usageRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewUsageRepository(client postgres.IClient, logger *logger.Logger) usage.Repository {
	return &usageRepository{
		client: client,
		logger: logger,
	}
}

// TryIncrement applies the quota check and the increment in one conditional
// upsert. First touch of a period inserts the row with the counter at 1;
// later touches increment only while the stored value is below the limit,
// so two callers racing at limit-1 can never both get through. A limit of
// types.UnlimitedQuota disables the guard but still counts.
func (r *usageRepository) TryIncrement(ctx context.Context, accountID string, period usage.Period, counter types.CounterName, limit int) (int, bool, error) {
	if err := counter.Validate(); err != nil {
		return 0, false, err
	}

	// A finite limit of zero can never admit an increment; short-circuit so
	// the first touch does not create a row with a consumed unit.
	if limit == 0 {
		current := 0
		if record, err := r.Get(ctx, accountID, period.Key); err == nil {
			current = record.CounterValue(counter)
		}
		return current, false, nil
	}

	tenantID := types.GetTenantID(ctx)
	column := counter.String()

	// The counter column comes from a validated closed set, never from input.
	query := fmt.Sprintf(`
		INSERT INTO usage_records (id, tenant_id, account_id, period_key, period_start, period_end, %s, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (tenant_id, account_id, period_key) DO UPDATE
		SET %s = usage_records.%s + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE $7 < 0 OR usage_records.%s < $7
		RETURNING %s`, column, column, column, column, column)

	var newValue int
	allowed := true
	err := withConflictRetry(ctx, r.logger, "usage_try_increment", func() error {
		row := r.client.Querier(ctx).QueryRowxContext(ctx, query,
			types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USAGE_RECORD),
			tenantID,
			accountID,
			period.Key,
			period.Start,
			period.End,
			limit,
		)
		err := row.Scan(&newValue)
		if errors.Is(err, sql.ErrNoRows) {
			// Conditional update matched nothing: the counter is at its limit
			allowed = false
			return nil
		}
		return err
	})
	if err != nil {
		if ierr.IsContention(err) {
			return 0, false, err
		}
		return 0, false, markStoreError(err, "Usage counter update failed", map[string]any{
			"account_id": accountID,
			"period_key": period.Key,
			"counter":    column,
		})
	}

	if !allowed {
		record, err := r.Get(ctx, accountID, period.Key)
		if err != nil {
			return 0, false, err
		}
		return record.CounterValue(counter), false, nil
	}

	r.logger.Debugw("incremented usage counter",
		"tenant_id", tenantID,
		"account_id", accountID,
		"period_key", period.Key,
		"counter", column,
		"new_value", newValue)

	return newValue, true, nil
}

func (r *usageRepository) Get(ctx context.Context, accountID string, periodKey string) (*usage.Record, error) {
	query := `
		SELECT id, account_id, period_key, period_start, period_end,
			invoices_created, receipts_generated, emails_sent,
			tenant_id, created_at, updated_at
		FROM usage_records
		WHERE tenant_id = $1 AND account_id = $2 AND period_key = $3`

	var record usage.Record
	err := r.client.Querier(ctx).GetContext(ctx, &record, query, types.GetTenantID(ctx), accountID, periodKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("usage record not found").
				WithHint("No usage recorded for this billing period yet").
				WithReportableDetails(map[string]any{
					"account_id": accountID,
					"period_key": periodKey,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, markStoreError(err, "Usage record lookup failed", map[string]any{
			"account_id": accountID,
			"period_key": periodKey,
		})
	}

	return &record, nil
}

func (r *usageRepository) ListByAccount(ctx context.Context, accountID string) ([]*usage.Record, error) {
	query := `
		SELECT id, account_id, period_key, period_start, period_end,
			invoices_created, receipts_generated, emails_sent,
			tenant_id, created_at, updated_at
		FROM usage_records
		WHERE tenant_id = $1 AND account_id = $2
		ORDER BY period_start DESC`

	var records []*usage.Record
	err := r.client.Querier(ctx).SelectContext(ctx, &records, query, types.GetTenantID(ctx), accountID)
	if err != nil {
		return nil, markStoreError(err, "Usage history lookup failed", map[string]any{
			"account_id": accountID,
		})
	}

	return records, nil
}
