package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billforge/billforge/internal/domain/usage"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usagePeriodFixture() usage.Period {
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	return usage.Period{
		Key:   types.FormatPeriodKey(start),
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

func usageRecordColumns() []string {
	return []string{
		"id", "account_id", "period_key", "period_start", "period_end",
		"invoices_created", "receipts_generated", "emails_sent",
		"tenant_id", "created_at", "updated_at",
	}
}

func TestTryIncrement_UnderLimit(t *testing.T) {
	client, mock, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)
	period := usagePeriodFixture()

	mock.ExpectQuery("INSERT INTO usage_records").
		WithArgs(sqlmock.AnyArg(), types.DefaultTenantID, "acct-1", period.Key, period.Start, period.End, 5).
		WillReturnRows(sqlmock.NewRows([]string{"emails_sent"}).AddRow(3))

	value, allowed, err := repo.TryIncrement(mockContext(), "acct-1", period, types.CounterEmailsSent, 5)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 3, value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryIncrement_DeniedAtLimit(t *testing.T) {
	client, mock, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)
	period := usagePeriodFixture()
	now := time.Now().UTC()

	// The conditional update matches no row, then the current value is read back
	mock.ExpectQuery("INSERT INTO usage_records").
		WillReturnRows(sqlmock.NewRows([]string{"emails_sent"}))
	mock.ExpectQuery("SELECT (.+) FROM usage_records").
		WithArgs(types.DefaultTenantID, "acct-1", period.Key).
		WillReturnRows(sqlmock.NewRows(usageRecordColumns()).
			AddRow("usage_01", "acct-1", period.Key, period.Start, period.End,
				0, 0, 5, types.DefaultTenantID, now, now))

	value, allowed, err := repo.TryIncrement(mockContext(), "acct-1", period, types.CounterEmailsSent, 5)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 5, value)
}

func TestTryIncrement_UnlimitedStillCounts(t *testing.T) {
	client, mock, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)
	period := usagePeriodFixture()

	mock.ExpectQuery("INSERT INTO usage_records").
		WithArgs(sqlmock.AnyArg(), types.DefaultTenantID, "acct-1", period.Key, period.Start, period.End, types.UnlimitedQuota).
		WillReturnRows(sqlmock.NewRows([]string{"emails_sent"}).AddRow(1001))

	value, allowed, err := repo.TryIncrement(mockContext(), "acct-1", period, types.CounterEmailsSent, types.UnlimitedQuota)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1001, value)
}

func TestTryIncrement_ZeroLimitNeverTouchesCounter(t *testing.T) {
	client, mock, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)
	period := usagePeriodFixture()

	// Only the read-back query runs; no insert or update is attempted
	mock.ExpectQuery("SELECT (.+) FROM usage_records").
		WillReturnRows(sqlmock.NewRows(usageRecordColumns()))

	value, allowed, err := repo.TryIncrement(mockContext(), "acct-1", period, types.CounterEmailsSent, 0)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryIncrement_InvalidCounter(t *testing.T) {
	client, _, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)

	_, _, err := repo.TryIncrement(mockContext(), "acct-1", usagePeriodFixture(), types.CounterName("api_calls"), 5)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestUsageGet_NotFound(t *testing.T) {
	client, mock, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)

	mock.ExpectQuery("SELECT (.+) FROM usage_records").
		WillReturnRows(sqlmock.NewRows(usageRecordColumns()))

	_, err := repo.Get(mockContext(), "acct-1", "20260115")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestListByAccount_OrdersNewestFirst(t *testing.T) {
	client, mock, closeFn := newMockClient(t)
	defer closeFn()

	repo := NewUsageRepository(client, logger.L)
	now := time.Now().UTC()
	january := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	february := january.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT (.+) FROM usage_records").
		WithArgs(types.DefaultTenantID, "acct-1").
		WillReturnRows(sqlmock.NewRows(usageRecordColumns()).
			AddRow("usage_02", "acct-1", "20260215", february, february.AddDate(0, 1, 0),
				2, 0, 1, types.DefaultTenantID, now, now).
			AddRow("usage_01", "acct-1", "20260115", january, february,
				5, 3, 5, types.DefaultTenantID, now, now))

	records, err := repo.ListByAccount(mockContext(), "acct-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "20260215", records[0].PeriodKey)
	assert.Equal(t, 5, records[1].InvoicesCreated)
}
