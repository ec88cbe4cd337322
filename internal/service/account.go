package service

import (
	"context"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/domain/account"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// AccountService mirrors subscription state owned by the account-management
// collaborator. This service is the single write path for accounts; the gate
// and numbering services only read them.
type AccountService interface {
	UpsertAccount(ctx context.Context, accountID string, req dto.UpsertAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, accountID string) (*dto.AccountResponse, error)
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{
		ServiceParams: params,
	}
}

func (s *accountService) UpsertAccount(ctx context.Context, accountID string, req dto.UpsertAccountRequest) (*dto.AccountResponse, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	if existing == nil {
		acct := &account.Account{
			ID:                 accountID,
			PlanID:             req.PlanID,
			BillingAnchorDay:   req.BillingAnchorDay,
			SubscriptionStatus: req.SubscriptionStatus,
			ExpiresAt:          req.ExpiresAt,
			BaseModel:          types.GetDefaultBaseModel(ctx),
		}
		if err := s.AccountRepo.Create(ctx, acct); err != nil {
			return nil, err
		}

		s.Logger.Infow("created account",
			"account_id", accountID,
			"plan_id", req.PlanID)
		return dto.NewAccountResponse(acct), nil
	}

	existing.PlanID = req.PlanID
	existing.BillingAnchorDay = req.BillingAnchorDay
	existing.SubscriptionStatus = req.SubscriptionStatus
	existing.ExpiresAt = req.ExpiresAt
	existing.UpdatedBy = types.GetUserID(ctx)

	if err := s.AccountRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, accountID)

	s.Logger.Infow("updated account",
		"account_id", accountID,
		"plan_id", req.PlanID,
		"subscription_status", req.SubscriptionStatus)
	return dto.NewAccountResponse(existing), nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}

// invalidateCache drops the cached read so plan changes gate the very next
// authorization
func (s *accountService) invalidateCache(ctx context.Context, accountID string) {
	if s.Cache == nil {
		return
	}
	key := cache.GenerateKey(cache.PrefixAccount, types.GetTenantID(ctx), accountID)
	s.Cache.Delete(ctx, key)
}
