package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type SubscriptionGateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service      SubscriptionGateService
	billingCycle BillingCycleService
	clock        time.Time
}

func TestSubscriptionGateService(t *testing.T) {
	suite.Run(t, new(SubscriptionGateServiceSuite))
}

func (s *SubscriptionGateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.clock = time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC)
	s.setupService()
}

func (s *SubscriptionGateServiceSuite) setupService() {
	s.billingCycle = NewBillingCycleServiceWithClock(s.GetLogger(), func() time.Time { return s.clock })
	s.service = NewSubscriptionGateService(s.params(), s.billingCycle)
}

func (s *SubscriptionGateServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:               s.GetLogger(),
		Config:               s.GetConfig(),
		AccountRepo:          stores.AccountRepo,
		UsageRepo:            stores.UsageRepo,
		SequenceRepo:         stores.SequenceRepo,
		SequenceSettingsRepo: stores.SequenceSettingsRepo,
	}
}

func (s *SubscriptionGateServiceSuite) createAccount(id string, planID types.PlanID) *account.Account {
	acct := &account.Account{
		ID:                 id,
		PlanID:             planID,
		BillingAnchorDay:   15,
		SubscriptionStatus: types.SubscriptionStatusActive,
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	err := s.GetStores().AccountRepo.Create(s.GetContext(), acct)
	s.NoError(err)
	return acct
}

func (s *SubscriptionGateServiceSuite) TestFreePlanEmailQuota() {
	s.createAccount("acct-free", types.PlanFree)

	// Free plan allows 5 emails per month
	for i := 1; i <= 5; i++ {
		resp, err := s.service.Authorize(s.GetContext(), "acct-free", types.ActionSendEmail)
		s.NoError(err)
		s.Equal(types.DecisionApproved, resp.Decision)
		s.Equal(i, resp.CurrentUsage)
		s.Equal(5, resp.Limit)
	}

	// The sixth is denied with the limit and usage for messaging
	resp, err := s.service.Authorize(s.GetContext(), "acct-free", types.ActionSendEmail)
	s.NoError(err)
	s.Equal(types.DecisionDenied, resp.Decision)
	s.Equal(types.ReasonQuotaExceeded, resp.Reason)
	s.Equal(5, resp.CurrentUsage)
	s.Equal(5, resp.Limit)
	s.NotEmpty(resp.Reference)
}

func (s *SubscriptionGateServiceSuite) TestBusinessPlanUnlimitedEmails() {
	s.createAccount("acct-biz", types.PlanBusiness)

	for i := 1; i <= 1000; i++ {
		resp, err := s.service.Authorize(s.GetContext(), "acct-biz", types.ActionSendEmail)
		s.NoError(err)
		s.Equal(types.DecisionApproved, resp.Decision)
		s.True(resp.Unlimited)
	}

	usage, err := s.service.GetCurrentUsage(s.GetContext(), "acct-biz")
	s.NoError(err)
	for _, counterUsage := range usage.Counters {
		if counterUsage.Counter == types.CounterEmailsSent {
			s.Equal(1000, counterUsage.Used)
			s.True(counterUsage.Unlimited)
		}
	}
}

func (s *SubscriptionGateServiceSuite) TestQuotaRaceAtBoundary() {
	s.createAccount("acct-race", types.PlanFree)

	// Consume 4 of 5 emails
	for i := 0; i < 4; i++ {
		resp, err := s.service.Authorize(s.GetContext(), "acct-race", types.ActionSendEmail)
		s.NoError(err)
		s.Equal(types.DecisionApproved, resp.Decision)
	}

	// Two simultaneous calls for the last unit: exactly one wins
	var approved, denied atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Go(func() {
			resp, err := s.service.Authorize(s.GetContext(), "acct-race", types.ActionSendEmail)
			s.NoError(err)
			if resp.Approved() {
				approved.Add(1)
			} else {
				denied.Add(1)
			}
		})
	}
	wg.Wait()

	s.Equal(int32(1), approved.Load())
	s.Equal(int32(1), denied.Load())
}

func (s *SubscriptionGateServiceSuite) TestQuotaHardAtLimit() {
	s.createAccount("acct-full", types.PlanFree)

	for i := 0; i < 5; i++ {
		_, err := s.service.Authorize(s.GetContext(), "acct-full", types.ActionSendEmail)
		s.NoError(err)
	}

	// All concurrent attempts over the limit are denied
	var approved atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Go(func() {
			resp, err := s.service.Authorize(s.GetContext(), "acct-full", types.ActionSendEmail)
			s.NoError(err)
			if resp.Approved() {
				approved.Add(1)
			}
		})
	}
	wg.Wait()

	s.Equal(int32(0), approved.Load())
}

func (s *SubscriptionGateServiceSuite) TestPeriodRollover() {
	s.createAccount("acct-rollover", types.PlanFree)

	for i := 0; i < 5; i++ {
		resp, err := s.service.Authorize(s.GetContext(), "acct-rollover", types.ActionCreateInvoice)
		s.NoError(err)
		s.Equal(types.DecisionApproved, resp.Decision)
	}

	firstPeriod, err := s.billingCycle.CurrentPeriod(s.GetContext(), &account.Account{ID: "acct-rollover", BillingAnchorDay: 15})
	s.NoError(err)

	// Cross the billing boundary: quota resets because the period key changes
	s.clock = s.clock.AddDate(0, 1, 0)

	resp, err := s.service.Authorize(s.GetContext(), "acct-rollover", types.ActionCreateInvoice)
	s.NoError(err)
	s.Equal(types.DecisionApproved, resp.Decision)
	s.Equal(1, resp.CurrentUsage)

	// The old record is unchanged and still queryable
	oldRecord, err := s.GetStores().UsageRepo.Get(s.GetContext(), "acct-rollover", firstPeriod.Key)
	s.NoError(err)
	s.Equal(5, oldRecord.InvoicesCreated)

	history, err := s.service.GetUsageHistory(s.GetContext(), "acct-rollover")
	s.NoError(err)
	s.Len(history.Records, 2)
}

func (s *SubscriptionGateServiceSuite) TestCancelledAccountKeepsPlanUntilExpiry() {
	expiry := s.clock.AddDate(0, 0, 10)
	acct := &account.Account{
		ID:                 "acct-cancelled",
		PlanID:             types.PlanBusiness,
		BillingAnchorDay:   15,
		SubscriptionStatus: types.SubscriptionStatusCancelled,
		ExpiresAt:          &expiry,
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), acct))

	// Before expiry the business plan still applies
	resp, err := s.service.Authorize(s.GetContext(), "acct-cancelled", types.ActionSendEmail)
	s.NoError(err)
	s.True(resp.Unlimited)

	// After expiry the account is treated as free for limit resolution
	s.clock = expiry.AddDate(0, 0, 1)
	resp, err = s.service.Authorize(s.GetContext(), "acct-cancelled", types.ActionSendEmail)
	s.NoError(err)
	s.False(resp.Unlimited)
	s.Equal(5, resp.Limit)
}

func (s *SubscriptionGateServiceSuite) TestTemplateGating() {
	s.createAccount("acct-templates", types.PlanFree)

	check, err := s.service.CanUseTemplate(s.GetContext(), "acct-templates", "classic")
	s.NoError(err)
	s.True(check.Allowed)

	check, err = s.service.CanUseTemplate(s.GetContext(), "acct-templates", "letterhead")
	s.NoError(err)
	s.False(check.Allowed)

	// Template checks never consume quota
	usage, err := s.service.GetCurrentUsage(s.GetContext(), "acct-templates")
	s.NoError(err)
	for _, counterUsage := range usage.Counters {
		s.Equal(0, counterUsage.Used)
	}
}

func (s *SubscriptionGateServiceSuite) TestUnknownAccount() {
	_, err := s.service.Authorize(s.GetContext(), "acct-missing", types.ActionSendEmail)
	s.Error(err)
}

func (s *SubscriptionGateServiceSuite) TestInvalidAction() {
	s.createAccount("acct-invalid", types.PlanFree)
	_, err := s.service.Authorize(s.GetContext(), "acct-invalid", types.ActionKind("delete_everything"))
	s.Error(err)
}
