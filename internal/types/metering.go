package types

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/samber/lo"
)

// UnlimitedQuota is the sentinel limit value meaning "no cap".
// Increments against an unlimited counter always succeed but are still
// recorded for reporting.
const UnlimitedQuota = -1

// ActionKind identifies a metered action gated by the subscription plan
type ActionKind string

const (
	ActionCreateInvoice   ActionKind = "create_invoice"
	ActionGenerateReceipt ActionKind = "generate_receipt"
	ActionSendEmail       ActionKind = "send_email"
)

func (a ActionKind) String() string {
	return string(a)
}

func (a ActionKind) Validate() error {
	allowedValues := []ActionKind{
		ActionCreateInvoice,
		ActionGenerateReceipt,
		ActionSendEmail,
	}

	if !lo.Contains(allowedValues, a) {
		return ierr.NewError("invalid action kind").
			WithHint("Invalid action kind").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": a,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// CounterName returns the usage counter this action consumes
func (a ActionKind) CounterName() CounterName {
	switch a {
	case ActionCreateInvoice:
		return CounterInvoicesCreated
	case ActionGenerateReceipt:
		return CounterReceiptsGenerated
	case ActionSendEmail:
		return CounterEmailsSent
	default:
		return ""
	}
}

// CounterName identifies one of the per-period usage counters
type CounterName string

const (
	CounterInvoicesCreated   CounterName = "invoices_created"
	CounterReceiptsGenerated CounterName = "receipts_generated"
	CounterEmailsSent        CounterName = "emails_sent"
)

func (c CounterName) String() string {
	return string(c)
}

func (c CounterName) Validate() error {
	allowedValues := []CounterName{
		CounterInvoicesCreated,
		CounterReceiptsGenerated,
		CounterEmailsSent,
	}

	if !lo.Contains(allowedValues, c) {
		return ierr.NewError("invalid counter name").
			WithHint("Invalid usage counter").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// DocumentKind identifies a numbered billing document
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "invoice"
	DocumentKindReceipt DocumentKind = "receipt"
)

func (d DocumentKind) String() string {
	return string(d)
}

func (d DocumentKind) Validate() error {
	allowedValues := []DocumentKind{
		DocumentKindInvoice,
		DocumentKindReceipt,
	}

	if !lo.Contains(allowedValues, d) {
		return ierr.NewError("invalid document kind").
			WithHint("Invalid document kind").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": d,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
