package service

import (
	"testing"
	"time"

	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/stretchr/testify/suite"
)

type BillingCycleServiceSuite struct {
	testutil.BaseServiceTestSuite
	clock   time.Time
	service BillingCycleService
}

func TestBillingCycleService(t *testing.T) {
	suite.Run(t, new(BillingCycleServiceSuite))
}

func (s *BillingCycleServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.clock = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	s.service = NewBillingCycleServiceWithClock(s.GetLogger(), func() time.Time { return s.clock })
}

func (s *BillingCycleServiceSuite) account(anchorDay int) *account.Account {
	return &account.Account{
		ID:                 "acct-cycle",
		PlanID:             types.PlanPremium,
		BillingAnchorDay:   anchorDay,
		SubscriptionStatus: types.SubscriptionStatusActive,
	}
}

func (s *BillingCycleServiceSuite) TestPeriodBeforeAnchor() {
	period, err := s.service.CurrentPeriod(s.GetContext(), s.account(15))
	s.NoError(err)
	s.Equal(time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), period.Start)
	s.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), period.End)
	s.Equal("20260215", period.Key)
}

func (s *BillingCycleServiceSuite) TestPeriodOnAnchorDay() {
	s.clock = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	period, err := s.service.CurrentPeriod(s.GetContext(), s.account(15))
	s.NoError(err)
	s.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), period.Start)
	s.Equal(time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC), period.End)
}

func (s *BillingCycleServiceSuite) TestAnchorClampedInShortMonth() {
	// Anchor day 31 in February clamps to the 28th, but the following
	// boundary snaps back to March 31
	s.clock = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	period, err := s.service.CurrentPeriod(s.GetContext(), s.account(31))
	s.NoError(err)
	s.Equal(time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), period.Start)
	s.Equal(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), period.End)
}

func (s *BillingCycleServiceSuite) TestYearBoundary() {
	s.clock = time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC)
	period, err := s.service.CurrentPeriod(s.GetContext(), s.account(10))
	s.NoError(err)
	s.Equal(time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC), period.Start)
	s.Equal(time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), period.End)
}

func (s *BillingCycleServiceSuite) TestInvalidAnchor() {
	_, err := s.service.CurrentPeriod(s.GetContext(), s.account(0))
	s.Error(err)

	_, err = s.service.CurrentPeriod(s.GetContext(), s.account(32))
	s.Error(err)
}

func (s *BillingCycleServiceSuite) TestEffectivePlan() {
	acct := s.account(15)
	s.Equal(types.PlanPremium, s.service.EffectivePlanID(acct))

	acct.SubscriptionStatus = types.SubscriptionStatusExpired
	s.Equal(types.PlanFree, s.service.EffectivePlanID(acct))

	expiry := s.clock.AddDate(0, 0, 5)
	acct.SubscriptionStatus = types.SubscriptionStatusCancelled
	acct.ExpiresAt = &expiry
	s.Equal(types.PlanPremium, s.service.EffectivePlanID(acct))

	s.clock = expiry
	s.Equal(types.PlanFree, s.service.EffectivePlanID(acct))
}
