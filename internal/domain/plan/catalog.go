package plan

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

// Limits holds the quota limits and feature flags for one plan tier.
// Values are compiled-in constants, not a database table; plan definitions
// change only with a software release.
type Limits struct {
	PlanID             types.PlanID `json:"plan_id"`
	InvoicesPerMonth   int          `json:"invoices_per_month"`
	ReceiptsPerMonth   int          `json:"receipts_per_month"`
	EmailsPerMonth     int          `json:"emails_per_month"`
	StartingNumber     int          `json:"starting_number"`
	AvailableTemplates []string     `json:"available_templates"`
}

// LimitFor returns the monthly cap for the given counter,
// or types.UnlimitedQuota when the plan has no cap.
func (l Limits) LimitFor(counter types.CounterName) int {
	switch counter {
	case types.CounterInvoicesCreated:
		return l.InvoicesPerMonth
	case types.CounterReceiptsGenerated:
		return l.ReceiptsPerMonth
	case types.CounterEmailsSent:
		return l.EmailsPerMonth
	default:
		return 0
	}
}

// HasTemplate reports whether the plan includes the given document template
func (l Limits) HasTemplate(templateID string) bool {
	return lo.Contains(l.AvailableTemplates, templateID)
}

var catalog = map[types.PlanID]Limits{
	types.PlanFree: {
		PlanID:             types.PlanFree,
		InvoicesPerMonth:   5,
		ReceiptsPerMonth:   5,
		EmailsPerMonth:     5,
		StartingNumber:     1,
		AvailableTemplates: []string{"classic"},
	},
	types.PlanPremium: {
		PlanID:             types.PlanPremium,
		InvoicesPerMonth:   500,
		ReceiptsPerMonth:   500,
		EmailsPerMonth:     500,
		StartingNumber:     100,
		AvailableTemplates: []string{"classic", "modern", "minimal"},
	},
	types.PlanBusiness: {
		PlanID:             types.PlanBusiness,
		InvoicesPerMonth:   types.UnlimitedQuota,
		ReceiptsPerMonth:   types.UnlimitedQuota,
		EmailsPerMonth:     types.UnlimitedQuota,
		StartingNumber:     1000,
		AvailableTemplates: []string{"classic", "modern", "minimal", "letterhead"},
	},
}

// GetLimits resolves the compiled-in limits for a plan.
// Plans form a closed set; an unknown plan id is a data defect, not user error.
func GetLimits(planID types.PlanID) (Limits, error) {
	limits, ok := catalog[planID]
	if !ok {
		return Limits{}, ierr.NewError("plan not in catalog").
			WithHint("Unknown subscription plan").
			WithReportableDetails(map[string]any{
				"plan_id": planID,
			}).
			Mark(ierr.ErrUnknownPlan)
	}
	return limits, nil
}

// ListLimits returns all plan definitions ordered free, premium, business
func ListLimits() []Limits {
	ordered := []types.PlanID{types.PlanFree, types.PlanPremium, types.PlanBusiness}
	result := make([]Limits, 0, len(ordered))
	for _, id := range ordered {
		result = append(result, catalog[id])
	}
	return result
}
