package sequence

import (
	"fmt"

	"github.com/billforge/billforge/internal/types"
)

// Counter is the per-account, per-document-kind monotonic integer source
// behind human-readable document numbers. Counters are created lazily on the
// first document of a kind and live for the life of the account: they survive
// plan changes and billing-period rollovers, so numbering is continuous.
type Counter struct {
	AccountID      string             `db:"account_id" json:"account_id"`
	DocumentKind   types.DocumentKind `db:"document_kind" json:"document_kind"`
	Prefix         string             `db:"prefix" json:"prefix"`
	LastIssued     int                `db:"last_issued" json:"last_issued"`
	StartingNumber int                `db:"starting_number" json:"starting_number"`
	types.BaseModel
}

// FormatNumber renders a document number as {prefix}-{n zero-padded to 3}.
// Values past 999 keep their full width ("INV-1000"), never wrap.
func FormatNumber(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// Allocation is the result of one successful Next call
type Allocation struct {
	Value  int    `json:"value"`
	Prefix string `json:"prefix"`
}

// Formatted renders the allocation as a document number
func (a Allocation) Formatted() string {
	return FormatNumber(a.Prefix, a.Value)
}

// Settings holds an account's numbering preferences, written by the settings
// collaborator. They only take effect for counters not yet created; changing
// them afterwards never renumbers existing documents.
type Settings struct {
	AccountID      string             `db:"account_id" json:"account_id"`
	DocumentKind   types.DocumentKind `db:"document_kind" json:"document_kind"`
	Prefix         string             `db:"prefix" json:"prefix"`
	StartingNumber int                `db:"starting_number" json:"starting_number"`
	types.BaseModel
}
