package dto

import (
	"time"

	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/usage"
	"github.com/billforge/billforge/internal/types"
)

// CounterUsage pairs one counter's current value with its plan limit
type CounterUsage struct {
	Counter   types.CounterName `json:"counter"`
	Used      int               `json:"used"`
	Limit     int               `json:"limit"`
	Unlimited bool              `json:"unlimited"`
}

// UsageResponse summarizes an account's consumption for one billing period
type UsageResponse struct {
	AccountID   string         `json:"account_id"`
	PlanID      types.PlanID   `json:"plan_id"`
	PeriodKey   string         `json:"period_key"`
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	Counters    []CounterUsage `json:"counters"`
}

// NewUsageResponse builds the summary from a usage record (nil when the
// period has no usage yet) and the resolved plan limits
func NewUsageResponse(accountID string, limits plan.Limits, period usage.Period, record *usage.Record) *UsageResponse {
	resp := &UsageResponse{
		AccountID:   accountID,
		PlanID:      limits.PlanID,
		PeriodKey:   period.Key,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
	}

	for _, counter := range []types.CounterName{
		types.CounterInvoicesCreated,
		types.CounterReceiptsGenerated,
		types.CounterEmailsSent,
	} {
		used := 0
		if record != nil {
			used = record.CounterValue(counter)
		}
		limit := limits.LimitFor(counter)
		resp.Counters = append(resp.Counters, CounterUsage{
			Counter:   counter,
			Used:      used,
			Limit:     limit,
			Unlimited: limit == types.UnlimitedQuota,
		})
	}

	return resp
}

// UsageHistoryResponse lists past periods, newest first
type UsageHistoryResponse struct {
	AccountID string          `json:"account_id"`
	Records   []*usage.Record `json:"records"`
}
