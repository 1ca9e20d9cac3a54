package transaction

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date,omitempty"` // defaults to today
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note,omitempty"`
}

func (r *CreateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if !Kind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: ErrInvalidKind.Error()})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.Note != nil && len(*r.Note) > 255 {
		errs = append(errs, validator.ValidationError{Field: "note", Message: "must be at most 255 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Date         string          `json:"date"`
	Kind         string          `json:"kind"`
	IsAdditive   bool            `json:"is_additive"`
	Amount       decimal.Decimal `json:"amount"`
	Note         *string         `json:"note,omitempty"`
}

func ToResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		EmployeeID:   t.EmployeeID,
		EmployeeName: t.EmployeeName,
		Date:         t.Date.Format(time.DateOnly),
		Kind:         string(t.Kind),
		IsAdditive:   t.Kind.IsAdditive(),
		Amount:       t.Amount,
		Note:         t.Note,
	}
}

func ToResponses(ts []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToResponse(t))
	}
	return out
}
