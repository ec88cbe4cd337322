package postgres

import (
	"context"
	"database/sql"

	"github.com/billforge/billforge/internal/domain/sequence"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/cockroachdb/errors"
)

type sequenceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewSequenceRepository(client postgres.IClient, logger *logger.Logger) sequence.Repository {
	return &sequenceRepository{
		client: client,
		logger: logger,
	}
}

// NewSequenceSettingsRepository exposes the same store through the
// settings-collaborator interface
func NewSequenceSettingsRepository(client postgres.IClient, logger *logger.Logger) sequence.SettingsRepository {
	return &sequenceRepository{
		client: client,
		logger: logger,
	}
}

// Next allocates the next document number in a single atomic statement.
// The upsert creates the counter at startingNumber on first use and
// increments the stored value otherwise; RETURNING closes the read-modify-
// write span inside the statement so two concurrent callers can never
// observe the same value.
func (r *sequenceRepository) Next(ctx context.Context, accountID string, kind types.DocumentKind, prefix string, startingNumber int) (*sequence.Allocation, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if startingNumber < 1 {
		startingNumber = 1
	}

	tenantID := types.GetTenantID(ctx)

	query := `
		INSERT INTO sequence_counters (tenant_id, account_id, document_kind, prefix, last_issued, starting_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (tenant_id, account_id, document_kind) DO UPDATE
		SET last_issued = sequence_counters.last_issued + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING last_issued, prefix`

	var allocation sequence.Allocation
	err := withConflictRetry(ctx, r.logger, "sequence_next", func() error {
		row := r.client.Querier(ctx).QueryRowxContext(ctx, query, tenantID, accountID, string(kind), prefix, startingNumber)
		return row.Scan(&allocation.Value, &allocation.Prefix)
	})
	if err != nil {
		if ierr.IsContention(err) {
			return nil, err
		}
		return nil, markStoreError(err, "Document number allocation failed", map[string]any{
			"account_id":    accountID,
			"document_kind": string(kind),
		})
	}

	r.logger.Infow("allocated document number",
		"tenant_id", tenantID,
		"account_id", accountID,
		"document_kind", kind,
		"last_issued", allocation.Value)

	return &allocation, nil
}

func (r *sequenceRepository) Get(ctx context.Context, accountID string, kind types.DocumentKind) (*sequence.Counter, error) {
	query := `
		SELECT account_id, document_kind, prefix, last_issued, starting_number, tenant_id, created_at, updated_at
		FROM sequence_counters
		WHERE tenant_id = $1 AND account_id = $2 AND document_kind = $3`

	var counter sequence.Counter
	err := r.client.Querier(ctx).GetContext(ctx, &counter, query, types.GetTenantID(ctx), accountID, string(kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("sequence counter not found").
				WithHint("No documents of this kind have been issued yet").
				WithReportableDetails(map[string]any{
					"account_id":    accountID,
					"document_kind": string(kind),
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, markStoreError(err, "Sequence counter lookup failed", map[string]any{
			"account_id":    accountID,
			"document_kind": string(kind),
		})
	}

	return &counter, nil
}

// GetSettings returns the account's numbering preferences,
// or ErrNotFound when none were ever saved.
func (r *sequenceRepository) GetSettings(ctx context.Context, accountID string, kind types.DocumentKind) (*sequence.Settings, error) {
	query := `
		SELECT account_id, document_kind, prefix, starting_number, tenant_id, created_at, updated_at
		FROM numbering_settings
		WHERE tenant_id = $1 AND account_id = $2 AND document_kind = $3`

	var settings sequence.Settings
	err := r.client.Querier(ctx).GetContext(ctx, &settings, query, types.GetTenantID(ctx), accountID, string(kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("numbering settings not found").
				WithHint("No numbering preferences saved for this account").
				WithReportableDetails(map[string]any{
					"account_id":    accountID,
					"document_kind": string(kind),
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, markStoreError(err, "Numbering settings lookup failed", nil)
	}

	return &settings, nil
}

func (r *sequenceRepository) UpsertSettings(ctx context.Context, settings *sequence.Settings) error {
	if err := settings.DocumentKind.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO numbering_settings (tenant_id, account_id, document_kind, prefix, starting_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (tenant_id, account_id, document_kind) DO UPDATE
		SET prefix = EXCLUDED.prefix,
			starting_number = EXCLUDED.starting_number,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		types.GetTenantID(ctx),
		settings.AccountID,
		string(settings.DocumentKind),
		settings.Prefix,
		settings.StartingNumber,
	)
	if err != nil {
		return markStoreError(err, "Saving numbering settings failed", map[string]any{
			"account_id":    settings.AccountID,
			"document_kind": string(settings.DocumentKind),
		})
	}

	return nil
}
