package payroll

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SealPeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *SealPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Year, r.Month) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "invalid year or month"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollResultResponse struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	Status          string          `json:"status"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	DaysWorked      int             `json:"days_worked"`
	DaysAbsent      int             `json:"days_absent"`
	BaseEarned      decimal.Decimal `json:"base_earned"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	OvertimePay     decimal.Decimal `json:"overtime_pay"`
	TotalBonuses    decimal.Decimal `json:"total_bonuses"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPayable      decimal.Decimal `json:"net_payable"`
}

type PeriodReportResponse struct {
	Period      string                  `json:"period"`
	Year        int                     `json:"year"`
	Month       int                     `json:"month"`
	IsFinalized bool                    `json:"is_finalized"`
	Results     []PayrollResultResponse `json:"results"`
	GrandTotal  decimal.Decimal         `json:"grand_total"`
}

// PayslipResponse itemises one employee's period. InstallmentDeduction is
// omitted for finalized payslips: the snapshot only keeps the total.
type PayslipResponse struct {
	Period               string                            `json:"period"`
	Result               PayrollResultResponse             `json:"result"`
	Bonuses              []transaction.TransactionResponse `json:"bonuses"`
	Deductions           []transaction.TransactionResponse `json:"deductions"`
	OpenInstallments     []installment.InstallmentResponse `json:"open_installments"`
	InstallmentDeduction *decimal.Decimal                  `json:"installment_deduction,omitempty"`
}

func ToResultResponse(r Result) PayrollResultResponse {
	return PayrollResultResponse{
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Status:          string(r.Status),
		BaseAmount:      r.BaseAmount,
		DaysWorked:      r.DaysWorked,
		DaysAbsent:      r.DaysAbsent,
		BaseEarned:      r.BaseEarned,
		OvertimeHours:   r.OvertimeHours,
		OvertimePay:     r.OvertimePay,
		TotalBonuses:    r.TotalBonuses,
		TotalDeductions: r.TotalDeductions,
		NetPayable:      r.NetPayable,
	}
}

func NewPeriodReport(period Period, finalized bool, results []Result) PeriodReportResponse {
	resp := PeriodReportResponse{
		Period:      period.String(),
		Year:        period.Year,
		Month:       period.Month,
		IsFinalized: finalized,
		Results:     make([]PayrollResultResponse, 0, len(results)),
		GrandTotal:  Totals(results),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, ToResultResponse(r))
	}
	return resp
}
