package payroll

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// monthly salaries are prorated over a fixed 30 day month
var daysPerMonth = decimal.NewFromInt(30)

// Compute aggregates one employee's period into a draft Result.
//
// records and transactions must already be restricted to the period. Every
// advance passed in is deducted in full: callers pass the open advances
// without a period filter. Money is rounded to cents per component and net
// pay is derived from the rounded components, so a snapshot's implied base
// equals BaseEarned exactly. Net pay is not clamped.
func Compute(
	emp employee.Employee,
	period Period,
	records []attendance.Attendance,
	transactions []transaction.Transaction,
	advances []installment.Advance,
) Result {
	res := Result{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName(),
		Period:       period,
		Status:       StatusDraft,
		BaseAmount:   emp.BaseAmount,
	}

	overtimeHours := decimal.Zero
	for _, rec := range records {
		switch {
		case rec.Status.IsWorked():
			res.DaysWorked++
		case rec.Status.IsUnpaidAbsence():
			res.DaysAbsent++
		}
		overtimeHours = overtimeHours.Add(rec.OvertimeHours)
	}
	res.OvertimeHours = overtimeHours
	res.OvertimePay = overtimeHours.Mul(emp.OvertimeRate).Round(2)

	res.BaseEarned = BaseEarned(emp, res.DaysWorked, res.DaysAbsent)

	bonuses, deductions := decimal.Zero, decimal.Zero
	for _, t := range transactions {
		if t.Kind.IsAdditive() {
			bonuses = bonuses.Add(t.SignedAmount())
		} else {
			deductions = deductions.Sub(t.SignedAmount())
		}
	}
	res.TotalBonuses = bonuses.Round(2)
	res.OtherDeductions = deductions.Round(2)

	installments := decimal.Zero
	for _, a := range advances {
		if a.Completed {
			continue
		}
		installments = installments.Add(a.MonthlyDeduction)
	}
	res.InstallmentDeduction = installments.Round(2)

	res.TotalDeductions = res.OtherDeductions.Add(res.InstallmentDeduction)
	res.NetPayable = res.BaseEarned.
		Add(res.OvertimePay).
		Add(res.TotalBonuses).
		Sub(res.TotalDeductions)

	return res
}

// BaseEarned is the salary after absences for monthly employees and the wage
// times worked days for daily employees, rounded to cents.
func BaseEarned(emp employee.Employee, daysWorked, daysAbsent int) decimal.Decimal {
	if emp.CompensationMode == employee.CompensationDaily {
		return emp.BaseAmount.Mul(decimal.NewFromInt(int64(daysWorked))).Round(2)
	}
	dailyCost := emp.BaseAmount.Div(daysPerMonth)
	return emp.BaseAmount.Sub(dailyCost.Mul(decimal.NewFromInt(int64(daysAbsent)))).Round(2)
}

// Totals sums net pay across results.
func Totals(results []Result) decimal.Decimal {
	total := decimal.Zero
	for _, r := range results {
		total = total.Add(r.NetPayable)
	}
	return total
}
