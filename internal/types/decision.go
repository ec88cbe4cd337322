package types

// AuthorizeDecision is the outcome of a subscription gate check.
// A denial is an expected, frequent outcome, not an error.
type AuthorizeDecision string

const (
	DecisionApproved AuthorizeDecision = "approved"
	DecisionDenied   AuthorizeDecision = "denied"
)

// DenialReason explains a denied authorization for user messaging
type DenialReason string

const (
	ReasonQuotaExceeded DenialReason = "quota_exceeded"
)
