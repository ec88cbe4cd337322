package service

import (
	"sync"
	"testing"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type NumberingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service NumberingService
}

func TestNumberingService(t *testing.T) {
	suite.Run(t, new(NumberingServiceSuite))
}

func (s *NumberingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *NumberingServiceSuite) setupService() {
	stores := s.GetStores()
	params := ServiceParams{
		Logger:               s.GetLogger(),
		Config:               s.GetConfig(),
		AccountRepo:          stores.AccountRepo,
		UsageRepo:            stores.UsageRepo,
		SequenceRepo:         stores.SequenceRepo,
		SequenceSettingsRepo: stores.SequenceSettingsRepo,
	}
	s.service = NewNumberingService(params, NewBillingCycleService(s.GetLogger()))
}

func (s *NumberingServiceSuite) createAccount(id string, planID types.PlanID) {
	acct := &account.Account{
		ID:                 id,
		PlanID:             planID,
		BillingAnchorDay:   1,
		SubscriptionStatus: types.SubscriptionStatusActive,
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), acct))
}

func (s *NumberingServiceSuite) TestFreePlanStartsAtOne() {
	s.createAccount("acct-1", types.PlanFree)

	resp, err := s.service.NextDocumentNumber(s.GetContext(), "acct-1", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("INV-001", resp.Number)
	s.Equal(1, resp.Value)

	resp, err = s.service.NextDocumentNumber(s.GetContext(), "acct-1", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("INV-002", resp.Number)
}

func (s *NumberingServiceSuite) TestPlanStartingNumberSeedsCounter() {
	s.createAccount("acct-premium", types.PlanPremium)

	resp, err := s.service.NextDocumentNumber(s.GetContext(), "acct-premium", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal(100, resp.Value)
	s.Equal("INV-100", resp.Number)
}

func (s *NumberingServiceSuite) TestReceiptCounterIsIndependent() {
	s.createAccount("acct-both", types.PlanFree)

	invoice, err := s.service.NextDocumentNumber(s.GetContext(), "acct-both", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("INV-001", invoice.Number)

	receipt, err := s.service.NextDocumentNumber(s.GetContext(), "acct-both", types.DocumentKindReceipt)
	s.NoError(err)
	s.Equal("RCT-001", receipt.Number)

	invoice, err = s.service.NextDocumentNumber(s.GetContext(), "acct-both", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("INV-002", invoice.Number)
}

func (s *NumberingServiceSuite) TestSettingsSeedNewCounterOnly() {
	s.createAccount("acct-settings", types.PlanFree)

	_, err := s.service.UpdateNumberingSettings(s.GetContext(), "acct-settings", dto.UpdateNumberingSettingsRequest{
		DocumentKind:   types.DocumentKindInvoice,
		Prefix:         "ACME",
		StartingNumber: 100,
	})
	s.NoError(err)

	resp, err := s.service.NextDocumentNumber(s.GetContext(), "acct-settings", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("ACME-100", resp.Number)

	// Changing the starting number after the counter exists is inert:
	// numbering continues from where it was
	_, err = s.service.UpdateNumberingSettings(s.GetContext(), "acct-settings", dto.UpdateNumberingSettingsRequest{
		DocumentKind:   types.DocumentKindInvoice,
		Prefix:         "ACME",
		StartingNumber: 500,
	})
	s.NoError(err)

	resp, err = s.service.NextDocumentNumber(s.GetContext(), "acct-settings", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("ACME-101", resp.Number)
}

func (s *NumberingServiceSuite) TestPaddingGrowsPastThreeDigits() {
	s.createAccount("acct-pad", types.PlanFree)

	_, err := s.service.UpdateNumberingSettings(s.GetContext(), "acct-pad", dto.UpdateNumberingSettingsRequest{
		DocumentKind:   types.DocumentKindInvoice,
		Prefix:         "INV",
		StartingNumber: 999,
	})
	s.NoError(err)

	resp, err := s.service.NextDocumentNumber(s.GetContext(), "acct-pad", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("INV-999", resp.Number)

	resp, err = s.service.NextDocumentNumber(s.GetContext(), "acct-pad", types.DocumentKindInvoice)
	s.NoError(err)
	s.Equal("INV-1000", resp.Number)
}

func (s *NumberingServiceSuite) TestConcurrentAllocationsAreDistinct() {
	s.createAccount("acct-conc", types.PlanFree)

	const allocations = 1000

	var mu sync.Mutex
	seen := make(map[int]struct{}, allocations)

	var wg conc.WaitGroup
	for i := 0; i < allocations; i++ {
		wg.Go(func() {
			resp, err := s.service.NextDocumentNumber(s.GetContext(), "acct-conc", types.DocumentKindInvoice)
			s.NoError(err)
			mu.Lock()
			seen[resp.Value] = struct{}{}
			mu.Unlock()
		})
	}
	wg.Wait()

	// Every allocation is unique and the range is gapless
	s.Len(seen, allocations)
	for i := 1; i <= allocations; i++ {
		s.Contains(seen, i)
	}
}

func (s *NumberingServiceSuite) TestGetNumberingSettings() {
	s.createAccount("acct-report", types.PlanPremium)

	resp, err := s.service.GetNumberingSettings(s.GetContext(), "acct-report", types.DocumentKindInvoice)
	s.NoError(err)
	s.False(resp.CounterExists)
	s.Equal("INV", resp.Prefix)
	s.Equal(100, resp.StartingNumber)

	_, err = s.service.NextDocumentNumber(s.GetContext(), "acct-report", types.DocumentKindInvoice)
	s.NoError(err)

	resp, err = s.service.GetNumberingSettings(s.GetContext(), "acct-report", types.DocumentKindInvoice)
	s.NoError(err)
	s.True(resp.CounterExists)
	s.Equal(100, resp.LastIssued)
}

func (s *NumberingServiceSuite) TestUnknownAccount() {
	_, err := s.service.NextDocumentNumber(s.GetContext(), "acct-nope", types.DocumentKindInvoice)
	s.Error(err)
}

func (s *NumberingServiceSuite) TestInvalidSettings() {
	s.createAccount("acct-bad", types.PlanFree)

	_, err := s.service.UpdateNumberingSettings(s.GetContext(), "acct-bad", dto.UpdateNumberingSettingsRequest{
		DocumentKind:   types.DocumentKindInvoice,
		Prefix:         "INV",
		StartingNumber: 0,
	})
	s.Error(err)

	_, err = s.service.UpdateNumberingSettings(s.GetContext(), "acct-bad", dto.UpdateNumberingSettingsRequest{
		DocumentKind:   types.DocumentKind("statement"),
		Prefix:         "INV",
		StartingNumber: 1,
	})
	s.Error(err)
}
