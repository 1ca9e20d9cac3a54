package installment

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateInstallmentRequest struct {
	EmployeeID       string           `json:"employee_id"`
	IssueDate        string           `json:"issue_date,omitempty"` // defaults to today
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	InstallmentCount int              `json:"installment_count"`
	MonthlyDeduction *decimal.Decimal `json:"monthly_deduction,omitempty"`
	Note             *string          `json:"note,omitempty"`
}

func (r *CreateInstallmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.IssueDate != "" {
		if _, ok := validator.IsValidDate(r.IssueDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "issue_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if !r.TotalAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be greater than zero"})
	}
	if r.InstallmentCount < 1 {
		errs = append(errs, validator.ValidationError{Field: "installment_count", Message: "must be at least 1"})
	}
	if r.MonthlyDeduction != nil && !r.MonthlyDeduction.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "monthly_deduction", Message: "must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InstallmentResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	IssueDate        string          `json:"issue_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	MonthlyDeduction decimal.Decimal `json:"monthly_deduction"`
	Note             *string         `json:"note,omitempty"`
	Completed        bool            `json:"completed"`
}

func ToResponse(a Advance) InstallmentResponse {
	return InstallmentResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		IssueDate:        a.IssueDate.Format(time.DateOnly),
		TotalAmount:      a.TotalAmount,
		InstallmentCount: a.InstallmentCount,
		MonthlyDeduction: a.MonthlyDeduction,
		Note:             a.Note,
		Completed:        a.Completed,
	}
}

func ToResponses(as []Advance) []InstallmentResponse {
	out := make([]InstallmentResponse, 0, len(as))
	for _, a := range as {
		out = append(out, ToResponse(a))
	}
	return out
}
