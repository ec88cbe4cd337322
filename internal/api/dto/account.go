package dto

import (
	"time"

	"github.com/billforge/billforge/internal/domain/account"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// UpsertAccountRequest mirrors subscription state owned by the
// account-management collaborator into the metering store
type UpsertAccountRequest struct {
	PlanID             types.PlanID             `json:"plan_id" binding:"required"`
	BillingAnchorDay   int                      `json:"billing_anchor_day" binding:"required,min=1,max=31"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status" binding:"required"`
	ExpiresAt          *time.Time               `json:"expires_at,omitempty"`
}

func (r *UpsertAccountRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.PlanID.Validate(); err != nil {
		return err
	}

	if err := r.SubscriptionStatus.Validate(); err != nil {
		return err
	}

	if r.BillingAnchorDay < 1 || r.BillingAnchorDay > 31 {
		return ierr.NewError("billing_anchor_day out of range").
			WithHint("Billing anchor day must be between 1 and 31").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// AccountResponse is the stored subscription state for one account
type AccountResponse struct {
	ID                 string                   `json:"id"`
	PlanID             types.PlanID             `json:"plan_id"`
	BillingAnchorDay   int                      `json:"billing_anchor_day"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
	ExpiresAt          *time.Time               `json:"expires_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

func NewAccountResponse(acct *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:                 acct.ID,
		PlanID:             acct.PlanID,
		BillingAnchorDay:   acct.BillingAnchorDay,
		SubscriptionStatus: acct.SubscriptionStatus,
		ExpiresAt:          acct.ExpiresAt,
		CreatedAt:          acct.CreatedAt,
		UpdatedAt:          acct.UpdatedAt,
	}
}
