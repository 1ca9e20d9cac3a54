package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	NationalID         string           `json:"national_id"`
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	PhoneNumber        string           `json:"phone_number"`
	IBAN               *string          `json:"iban,omitempty"`
	BankName           *string          `json:"bank_name,omitempty"`
	CompensationMode   string           `json:"compensation_mode"`
	BaseAmount         decimal.Decimal  `json:"base_amount"`
	OvertimeRate       *decimal.Decimal `json:"overtime_rate,omitempty"`
	StandardDailyHours *int             `json:"standard_daily_hours,omitempty"`
	HireDate           string           `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidNationalID(r.NationalID) {
		errs = append(errs, validator.ValidationError{Field: "national_id", Message: ErrInvalidNationalID.Error()})
	}
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "is required"})
	}
	if !validator.IsValidPhoneNumber(r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phone_number", Message: ErrInvalidPhoneNumber.Error()})
	}
	if r.IBAN != nil && !validator.IsValidIBAN(*r.IBAN) {
		errs = append(errs, validator.ValidationError{Field: "iban", Message: "invalid IBAN format"})
	}
	if !CompensationMode(r.CompensationMode).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "compensation_mode", Message: ErrInvalidCompensationMode.Error()})
	}
	if !r.BaseAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_amount", Message: "must be greater than zero"})
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	if r.StandardDailyHours != nil && (*r.StandardDailyHours < 1 || *r.StandardDailyHours > 24) {
		errs = append(errs, validator.ValidationError{Field: "standard_daily_hours", Message: "must be between 1 and 24"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID                 string           `json:"-"`
	NationalID         *string          `json:"national_id,omitempty"`
	FirstName          *string          `json:"first_name,omitempty"`
	LastName           *string          `json:"last_name,omitempty"`
	PhoneNumber        *string          `json:"phone_number,omitempty"`
	IBAN               *string          `json:"iban,omitempty"`
	BankName           *string          `json:"bank_name,omitempty"`
	CompensationMode   *string          `json:"compensation_mode,omitempty"`
	BaseAmount         *decimal.Decimal `json:"base_amount,omitempty"`
	OvertimeRate       *decimal.Decimal `json:"overtime_rate,omitempty"`
	StandardDailyHours *int             `json:"standard_daily_hours,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.NationalID != nil && !validator.IsValidNationalID(*r.NationalID) {
		errs = append(errs, validator.ValidationError{Field: "national_id", Message: ErrInvalidNationalID.Error()})
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "cannot be empty"})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "cannot be empty"})
	}
	if r.PhoneNumber != nil && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phone_number", Message: ErrInvalidPhoneNumber.Error()})
	}
	if r.IBAN != nil && !validator.IsValidIBAN(*r.IBAN) {
		errs = append(errs, validator.ValidationError{Field: "iban", Message: "invalid IBAN format"})
	}
	if r.CompensationMode != nil && !CompensationMode(*r.CompensationMode).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "compensation_mode", Message: ErrInvalidCompensationMode.Error()})
	}
	if r.BaseAmount != nil && !r.BaseAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_amount", Message: "must be greater than zero"})
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	if r.StandardDailyHours != nil && (*r.StandardDailyHours < 1 || *r.StandardDailyHours > 24) {
		errs = append(errs, validator.ValidationError{Field: "standard_daily_hours", Message: "must be between 1 and 24"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                 string          `json:"id"`
	NationalID         string          `json:"national_id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	FullName           string          `json:"full_name"`
	PhoneNumber        string          `json:"phone_number"`
	IBAN               *string         `json:"iban,omitempty"`
	BankName           *string         `json:"bank_name,omitempty"`
	CompensationMode   string          `json:"compensation_mode"`
	BaseAmount         decimal.Decimal `json:"base_amount"`
	OvertimeRate       decimal.Decimal `json:"overtime_rate"`
	StandardDailyHours int             `json:"standard_daily_hours"`
	HireDate           string          `json:"hire_date"`
	IsActive           bool            `json:"is_active"`
}

// EmployeeDetailResponse is the employee page: the selected month's
// transactions plus every installment advance, settled or not.
type EmployeeDetailResponse struct {
	Employee     EmployeeResponse                  `json:"employee"`
	Year         int                               `json:"year"`
	Month        int                               `json:"month"`
	Transactions []transaction.TransactionResponse `json:"transactions"`
	Installments []installment.InstallmentResponse `json:"installments"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                 e.ID,
		NationalID:         e.NationalID,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		FullName:           e.FullName(),
		PhoneNumber:        e.PhoneNumber,
		IBAN:               e.IBAN,
		BankName:           e.BankName,
		CompensationMode:   string(e.CompensationMode),
		BaseAmount:         e.BaseAmount,
		OvertimeRate:       e.OvertimeRate,
		StandardDailyHours: e.StandardDailyHours,
		HireDate:           e.HireDate.Format(time.DateOnly),
		IsActive:           e.IsActive,
	}
}
