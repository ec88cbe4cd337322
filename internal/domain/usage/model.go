package usage

import (
	"time"

	"github.com/billforge/billforge/internal/types"
)

// Record tracks the metered counters for one account within one billing
// period. Rows are created lazily on first increment and are append-only
// afterwards: counters only ever grow, and a new period is a new row.
type Record struct {
	ID                string    `db:"id" json:"id"`
	AccountID         string    `db:"account_id" json:"account_id"`
	PeriodKey         string    `db:"period_key" json:"period_key"`
	PeriodStart       time.Time `db:"period_start" json:"period_start"`
	PeriodEnd         time.Time `db:"period_end" json:"period_end"`
	InvoicesCreated   int       `db:"invoices_created" json:"invoices_created"`
	ReceiptsGenerated int       `db:"receipts_generated" json:"receipts_generated"`
	EmailsSent        int       `db:"emails_sent" json:"emails_sent"`
	types.BaseModel
}

// CounterValue returns the current value of the named counter
func (r *Record) CounterValue(counter types.CounterName) int {
	switch counter {
	case types.CounterInvoicesCreated:
		return r.InvoicesCreated
	case types.CounterReceiptsGenerated:
		return r.ReceiptsGenerated
	case types.CounterEmailsSent:
		return r.EmailsSent
	default:
		return 0
	}
}

// Period describes the billing period a counter increment belongs to.
// The key addresses the usage row; start/end seed the row on first touch.
type Period struct {
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
