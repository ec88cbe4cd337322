package service

import (
	"context"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/sequence"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// NumberingService issues formatted document numbers. Callers authorize the
// action through the subscription gate first; Next is only invoked after
// authorization succeeds so rejected actions never burn numbers.
type NumberingService interface {
	NextDocumentNumber(ctx context.Context, accountID string, kind types.DocumentKind) (*dto.NextNumberResponse, error)

	// GetNumberingSettings reports the preferences that will seed the next
	// counter, plus the live counter state when one already exists
	GetNumberingSettings(ctx context.Context, accountID string, kind types.DocumentKind) (*dto.NumberingSettingsResponse, error)

	// UpdateNumberingSettings stores prefix/starting-number preferences.
	// They take effect only for counters not yet created; existing counters
	// keep numbering continuously.
	UpdateNumberingSettings(ctx context.Context, accountID string, req dto.UpdateNumberingSettingsRequest) (*dto.NumberingSettingsResponse, error)
}

type numberingService struct {
	ServiceParams
	billingCycle BillingCycleService
}

func NewNumberingService(params ServiceParams, billingCycle BillingCycleService) NumberingService {
	return &numberingService{
		ServiceParams: params,
		billingCycle:  billingCycle,
	}
}

func (s *numberingService) NextDocumentNumber(ctx context.Context, accountID string, kind types.DocumentKind) (*dto.NextNumberResponse, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	prefix, startingNumber, err := s.resolveSeed(ctx, accountID, kind, s.billingCycle.EffectivePlanID(acct))
	if err != nil {
		return nil, err
	}

	allocation, err := s.SequenceRepo.Next(ctx, accountID, kind, prefix, startingNumber)
	if err != nil {
		return nil, err
	}

	return &dto.NextNumberResponse{
		AccountID:    accountID,
		DocumentKind: kind,
		Number:       allocation.Formatted(),
		Value:        allocation.Value,
	}, nil
}

func (s *numberingService) GetNumberingSettings(ctx context.Context, accountID string, kind types.DocumentKind) (*dto.NumberingSettingsResponse, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	prefix, startingNumber, err := s.resolveSeed(ctx, accountID, kind, s.billingCycle.EffectivePlanID(acct))
	if err != nil {
		return nil, err
	}

	resp := &dto.NumberingSettingsResponse{
		AccountID:      accountID,
		DocumentKind:   kind,
		Prefix:         prefix,
		StartingNumber: startingNumber,
	}

	counter, err := s.SequenceRepo.Get(ctx, accountID, kind)
	if err != nil {
		if ierr.IsNotFound(err) {
			return resp, nil
		}
		return nil, err
	}

	resp.CounterExists = true
	resp.LastIssued = counter.LastIssued
	resp.Prefix = counter.Prefix
	return resp, nil
}

func (s *numberingService) UpdateNumberingSettings(ctx context.Context, accountID string, req dto.UpdateNumberingSettingsRequest) (*dto.NumberingSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.AccountRepo.Get(ctx, accountID); err != nil {
		return nil, err
	}

	settings := &sequence.Settings{
		AccountID:      accountID,
		DocumentKind:   req.DocumentKind,
		Prefix:         req.Prefix,
		StartingNumber: req.StartingNumber,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := s.SequenceSettingsRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated numbering settings",
		"account_id", accountID,
		"document_kind", req.DocumentKind,
		"prefix", req.Prefix,
		"starting_number", req.StartingNumber)

	return s.GetNumberingSettings(ctx, accountID, req.DocumentKind)
}

// resolveSeed picks the prefix and starting number a new counter would be
// created with: saved account preferences first, then plan tier and the
// configured default prefix.
func (s *numberingService) resolveSeed(ctx context.Context, accountID string, kind types.DocumentKind, planID types.PlanID) (string, int, error) {
	limits, err := plan.GetLimits(planID)
	if err != nil {
		return "", 0, err
	}

	prefix := s.defaultPrefix(kind)
	startingNumber := limits.StartingNumber

	settings, err := s.SequenceSettingsRepo.GetSettings(ctx, accountID, kind)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return "", 0, err
		}
		return prefix, startingNumber, nil
	}

	if settings.Prefix != "" {
		prefix = settings.Prefix
	}
	if settings.StartingNumber > 0 {
		startingNumber = settings.StartingNumber
	}
	return prefix, startingNumber, nil
}

func (s *numberingService) defaultPrefix(kind types.DocumentKind) string {
	switch kind {
	case types.DocumentKindReceipt:
		if s.Config != nil && s.Config.Sequence.ReceiptPrefix != "" {
			return s.Config.Sequence.ReceiptPrefix
		}
		return "RCT"
	default:
		if s.Config != nil && s.Config.Sequence.InvoicePrefix != "" {
			return s.Config.Sequence.InvoicePrefix
		}
		return "INV"
	}
}
