package types

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/samber/lo"
)

// PlanID identifies one of the compiled-in subscription plans.
// Plan definitions change only with a software release, never at runtime.
type PlanID string

const (
	PlanFree     PlanID = "free"
	PlanPremium  PlanID = "premium"
	PlanBusiness PlanID = "business"
)

func (p PlanID) String() string {
	return string(p)
}

func (p PlanID) Validate() error {
	allowedValues := []PlanID{
		PlanFree,
		PlanPremium,
		PlanBusiness,
	}

	if !lo.Contains(allowedValues, p) {
		return ierr.NewError("invalid plan id").
			WithHint("Unknown subscription plan").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrUnknownPlan)
	}

	return nil
}

// SubscriptionStatus tracks the lifecycle of an account's subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowedValues := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusCancelled,
		SubscriptionStatusExpired,
	}

	if !lo.Contains(allowedValues, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
