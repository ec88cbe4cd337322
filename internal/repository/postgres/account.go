package postgres

import (
	"context"
	"database/sql"

	"github.com/billforge/billforge/internal/domain/account"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

type accountRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewAccountRepository(client postgres.IClient, logger *logger.Logger) account.Repository {
	return &accountRepository{
		client: client,
		logger: logger,
	}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	if err := a.PlanID.Validate(); err != nil {
		return err
	}
	if err := a.SubscriptionStatus.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (id, tenant_id, plan_id, billing_anchor_day, subscription_status, expires_at, status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.client.Querier(ctx).ExecContext(ctx, query,
		a.ID,
		types.GetTenantID(ctx),
		string(a.PlanID),
		a.BillingAnchorDay,
		string(a.SubscriptionStatus),
		a.ExpiresAt,
		string(a.Status),
		a.CreatedAt,
		a.UpdatedAt,
		a.CreatedBy,
		a.UpdatedBy,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("An account with this id already exists").
				WithReportableDetails(map[string]any{
					"account_id": a.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return markStoreError(err, "Account creation failed", map[string]any{
			"account_id": a.ID,
		})
	}

	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, plan_id, billing_anchor_day, subscription_status, expires_at,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		FROM accounts
		WHERE tenant_id = $1 AND id = $2 AND status != $3`

	var a account.Account
	err := r.client.Querier(ctx).GetContext(ctx, &a, query, types.GetTenantID(ctx), id, string(types.StatusDeleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("account not found").
				WithHintf("Account with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"account_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, markStoreError(err, "Account lookup failed", map[string]any{
			"account_id": id,
		})
	}

	return &a, nil
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	if err := a.PlanID.Validate(); err != nil {
		return err
	}
	if err := a.SubscriptionStatus.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET plan_id = $1,
			billing_anchor_day = $2,
			subscription_status = $3,
			expires_at = $4,
			updated_at = CURRENT_TIMESTAMP,
			updated_by = $5
		WHERE tenant_id = $6 AND id = $7`

	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		string(a.PlanID),
		a.BillingAnchorDay,
		string(a.SubscriptionStatus),
		a.ExpiresAt,
		types.GetUserID(ctx),
		types.GetTenantID(ctx),
		a.ID,
	)
	if err != nil {
		return markStoreError(err, "Account update failed", map[string]any{
			"account_id": a.ID,
		})
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return markStoreError(err, "Account update failed", nil)
	}
	if rows == 0 {
		return ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", a.ID).
			WithReportableDetails(map[string]any{
				"account_id": a.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
