package dto

import (
	"time"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// AuthorizeRequest asks the gate whether a metered action may proceed.
// A successful authorization consumes one unit of quota immediately.
type AuthorizeRequest struct {
	AccountID string           `json:"account_id" binding:"required"`
	Action    types.ActionKind `json:"action" binding:"required"`
}

func (r *AuthorizeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	return r.Action.Validate()
}

// AuthorizeResponse carries the gate's decision along with the limit and
// current usage so the caller can render messages like "4/4 emails used
// this month".
type AuthorizeResponse struct {
	Decision     types.AuthorizeDecision `json:"decision"`
	Reason       types.DenialReason      `json:"reason,omitempty"`
	Action       types.ActionKind        `json:"action"`
	Counter      types.CounterName       `json:"counter"`
	CurrentUsage int                     `json:"current_usage"`
	Limit        int                     `json:"limit"`
	Unlimited    bool                    `json:"unlimited"`
	PeriodStart  time.Time               `json:"period_start"`
	PeriodEnd    time.Time               `json:"period_end"`

	// Reference is a short id issued on denials so support can correlate
	// a user report with the gate's logs
	Reference string `json:"reference,omitempty"`
}

// Approved reports whether the action may proceed
func (r *AuthorizeResponse) Approved() bool {
	return r.Decision == types.DecisionApproved
}

// TemplateCheckResponse is the stateless template-gating result
type TemplateCheckResponse struct {
	TemplateID string       `json:"template_id"`
	PlanID     types.PlanID `json:"plan_id"`
	Allowed    bool         `json:"allowed"`
}
