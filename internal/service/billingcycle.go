package service

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/domain/usage"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
)

// BillingCycleService resolves which billing period an account is in right
// now. It is a pure function of account state and the clock: rollover needs
// no sweep job because a new period is simply a new usage-record key.
type BillingCycleService interface {
	// CurrentPeriod returns the period containing "now" for the account
	CurrentPeriod(ctx context.Context, acct *account.Account) (usage.Period, error)

	// EffectivePlanID resolves the plan used for limit checks at this
	// instant. Cancelled accounts keep their plan until the recorded
	// expiration; after that they are treated as free. Historical usage
	// records are untouched by the downgrade.
	EffectivePlanID(acct *account.Account) types.PlanID
}

type billingCycleService struct {
	log *logger.Logger
	now func() time.Time
}

func NewBillingCycleService(log *logger.Logger) BillingCycleService {
	return &billingCycleService{
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// NewBillingCycleServiceWithClock allows tests to pin the clock
func NewBillingCycleServiceWithClock(log *logger.Logger, now func() time.Time) BillingCycleService {
	return &billingCycleService{
		log: log,
		now: now,
	}
}

func (s *billingCycleService) CurrentPeriod(ctx context.Context, acct *account.Account) (usage.Period, error) {
	if acct == nil {
		return usage.Period{}, ierr.NewError("account is required").
			WithHint("Account is required to resolve the billing period").
			Mark(ierr.ErrValidation)
	}

	start, end, err := types.CurrentBillingPeriod(acct.BillingAnchorDay, s.now())
	if err != nil {
		return usage.Period{}, ierr.WithError(err).
			WithHint("Account has an invalid billing anchor").
			WithReportableDetails(map[string]any{
				"account_id":         acct.ID,
				"billing_anchor_day": acct.BillingAnchorDay,
			}).
			Mark(ierr.ErrValidation)
	}

	return usage.Period{
		Key:   types.FormatPeriodKey(start),
		Start: start,
		End:   end,
	}, nil
}

func (s *billingCycleService) EffectivePlanID(acct *account.Account) types.PlanID {
	if acct == nil {
		return types.PlanFree
	}
	if acct.IsExpired(s.now()) {
		return types.PlanFree
	}
	return acct.PlanID
}
