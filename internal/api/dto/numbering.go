package dto

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// NextNumberRequest asks for the next document number of a kind.
// Callers authorize the action first; allocation never precedes
// authorization so rejected actions do not burn numbers.
type NextNumberRequest struct {
	AccountID    string             `json:"account_id" binding:"required"`
	DocumentKind types.DocumentKind `json:"document_kind" binding:"required"`
}

func (r *NextNumberRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.DocumentKind.Validate()
}

// NextNumberResponse carries a freshly allocated document number
type NextNumberResponse struct {
	AccountID    string             `json:"account_id"`
	DocumentKind types.DocumentKind `json:"document_kind"`
	Number       string             `json:"number"`
	Value        int                `json:"value"`
}

// UpdateNumberingSettingsRequest writes an account's numbering preferences.
// They only apply to counters not yet created.
type UpdateNumberingSettingsRequest struct {
	DocumentKind   types.DocumentKind `json:"document_kind" binding:"required"`
	Prefix         string             `json:"prefix" binding:"required,max=10"`
	StartingNumber int                `json:"starting_number" binding:"required,min=1"`
}

func (r *UpdateNumberingSettingsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.DocumentKind.Validate(); err != nil {
		return err
	}

	if r.StartingNumber < 1 {
		return ierr.NewError("starting_number must be positive").
			WithHint("Starting number must be at least 1").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// NumberingSettingsResponse reports the stored preferences and, when a
// counter already exists, the value numbering will actually continue from
type NumberingSettingsResponse struct {
	AccountID      string             `json:"account_id"`
	DocumentKind   types.DocumentKind `json:"document_kind"`
	Prefix         string             `json:"prefix"`
	StartingNumber int                `json:"starting_number"`
	CounterExists  bool               `json:"counter_exists"`
	LastIssued     int                `json:"last_issued,omitempty"`
}
