package account

import (
	"time"

	"github.com/billforge/billforge/internal/types"
)

// Account identifies a tenant's billing account. Plan assignment and
// subscription lifecycle are owned by the account-management collaborator;
// the metering engine only reads this state.
type Account struct {
	ID                 string                   `db:"id" json:"id"`
	PlanID             types.PlanID             `db:"plan_id" json:"plan_id"`
	BillingAnchorDay   int                      `db:"billing_anchor_day" json:"billing_anchor_day"`
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	ExpiresAt          *time.Time               `db:"expires_at" json:"expires_at,omitempty"`
	types.BaseModel
}

// IsExpired reports whether the subscription has lapsed at the given instant.
// Cancelled accounts keep their plan until the recorded expiration date.
func (a *Account) IsExpired(now time.Time) bool {
	if a.SubscriptionStatus == types.SubscriptionStatusExpired {
		return true
	}
	if a.SubscriptionStatus == types.SubscriptionStatusCancelled {
		return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
	}
	return false
}
