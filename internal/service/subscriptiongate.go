package service

import (
	"context"

	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/domain/plan"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"

	"github.com/billforge/billforge/internal/api/dto"
)

// SubscriptionGateService is the facade callers consult before performing a
// metered action. Authorize consumes quota eagerly: once it approves, the
// increment is committed and is never rolled back, so callers must not
// authorize speculatively.
type SubscriptionGateService interface {
	Authorize(ctx context.Context, accountID string, action types.ActionKind) (*dto.AuthorizeResponse, error)

	// CanUseTemplate is a stateless plan-feature check; it never touches
	// the usage ledger
	CanUseTemplate(ctx context.Context, accountID string, templateID string) (*dto.TemplateCheckResponse, error)

	GetCurrentUsage(ctx context.Context, accountID string) (*dto.UsageResponse, error)
	GetUsageHistory(ctx context.Context, accountID string) (*dto.UsageHistoryResponse, error)
}

type subscriptionGateService struct {
	ServiceParams
	billingCycle BillingCycleService
}

func NewSubscriptionGateService(params ServiceParams, billingCycle BillingCycleService) SubscriptionGateService {
	return &subscriptionGateService{
		ServiceParams: params,
		billingCycle:  billingCycle,
	}
}

func (s *subscriptionGateService) Authorize(ctx context.Context, accountID string, action types.ActionKind) (*dto.AuthorizeResponse, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	planID := s.billingCycle.EffectivePlanID(acct)
	limits, err := plan.GetLimits(planID)
	if err != nil {
		return nil, err
	}

	period, err := s.billingCycle.CurrentPeriod(ctx, acct)
	if err != nil {
		return nil, err
	}

	counter := action.CounterName()
	limit := limits.LimitFor(counter)

	value, allowed, err := s.UsageRepo.TryIncrement(ctx, accountID, period, counter, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthorizeResponse{
		Action:       action,
		Counter:      counter,
		CurrentUsage: value,
		Limit:        limit,
		Unlimited:    limit == types.UnlimitedQuota,
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
	}

	if !allowed {
		resp.Decision = types.DecisionDenied
		resp.Reason = types.ReasonQuotaExceeded
		resp.Reference = types.GenerateShortIDWithPrefix("dn")
		s.Logger.Infow("denied metered action",
			"account_id", accountID,
			"action", action,
			"current_usage", value,
			"limit", limit,
			"period_key", period.Key,
			"reference", resp.Reference)
		return resp, nil
	}

	resp.Decision = types.DecisionApproved
	return resp, nil
}

func (s *subscriptionGateService) CanUseTemplate(ctx context.Context, accountID string, templateID string) (*dto.TemplateCheckResponse, error) {
	if templateID == "" {
		return nil, ierr.NewError("template_id is required").
			WithHint("Template ID is required").
			Mark(ierr.ErrValidation)
	}

	acct, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	planID := s.billingCycle.EffectivePlanID(acct)
	limits, err := plan.GetLimits(planID)
	if err != nil {
		return nil, err
	}

	return &dto.TemplateCheckResponse{
		TemplateID: templateID,
		PlanID:     planID,
		Allowed:    limits.HasTemplate(templateID),
	}, nil
}

func (s *subscriptionGateService) GetCurrentUsage(ctx context.Context, accountID string) (*dto.UsageResponse, error) {
	acct, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	planID := s.billingCycle.EffectivePlanID(acct)
	limits, err := plan.GetLimits(planID)
	if err != nil {
		return nil, err
	}

	period, err := s.billingCycle.CurrentPeriod(ctx, acct)
	if err != nil {
		return nil, err
	}

	record, err := s.UsageRepo.Get(ctx, accountID, period.Key)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	return dto.NewUsageResponse(accountID, limits, period, record), nil
}

func (s *subscriptionGateService) GetUsageHistory(ctx context.Context, accountID string) (*dto.UsageHistoryResponse, error) {
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	records, err := s.UsageRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &dto.UsageHistoryResponse{
		AccountID: accountID,
		Records:   records,
	}, nil
}

// getAccount reads the account through the cache. Only this read path is
// cached; counters always go to the store.
func (s *subscriptionGateService) getAccount(ctx context.Context, accountID string) (*account.Account, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	var key string
	if s.Cache != nil {
		key = cache.GenerateKey(cache.PrefixAccount, types.GetTenantID(ctx), accountID)
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if acct, ok := cached.(*account.Account); ok {
				return acct, nil
			}
		}
	}

	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, acct, cache.DefaultExpiration)
	}

	return acct, nil
}
