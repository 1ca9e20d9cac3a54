package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"     // computed live
	StatusFinalized Status = "finalized" // read from a snapshot
)

// Period is a calendar month. Storage keys use its first day.
type Period struct {
	Year  int
	Month int
}

func NewPeriod(year, month int) (Period, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the month that contains t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) Previous() Period {
	return PeriodOf(p.FirstDay().AddDate(0, -1, 0))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Result is one employee's payroll for one period.
type Result struct {
	EmployeeID   string
	EmployeeName string
	Period       Period
	Status       Status

	BaseAmount    decimal.Decimal // salary or daily wage used for the computation
	DaysWorked    int
	DaysAbsent    int
	BaseEarned    decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimePay   decimal.Decimal
	TotalBonuses  decimal.Decimal

	// Split of TotalDeductions. Only known for live results.
	OtherDeductions      decimal.Decimal
	InstallmentDeduction decimal.Decimal

	TotalDeductions decimal.Decimal
	NetPayable      decimal.Decimal
}

// Snapshot is the frozen payroll of one employee for one period.
type Snapshot struct {
	ID              string
	EmployeeID      string
	Period          time.Time // first day of the month
	BaseAmount      decimal.Decimal
	DaysWorked      int
	DaysAbsent      int
	OvertimeHours   decimal.Decimal
	OvertimePay     decimal.Decimal
	TotalBonuses    decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPayable      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeName *string
}

func SnapshotFromResult(r Result) Snapshot {
	return Snapshot{
		EmployeeID:      r.EmployeeID,
		Period:          r.Period.FirstDay(),
		BaseAmount:      r.BaseAmount,
		DaysWorked:      r.DaysWorked,
		DaysAbsent:      r.DaysAbsent,
		OvertimeHours:   r.OvertimeHours,
		OvertimePay:     r.OvertimePay,
		TotalBonuses:    r.TotalBonuses,
		TotalDeductions: r.TotalDeductions,
		NetPayable:      r.NetPayable,
	}
}

// ImpliedBaseEarned reverse-derives the base earning, which snapshots do not store.
func (s Snapshot) ImpliedBaseEarned() decimal.Decimal {
	return s.NetPayable.Add(s.TotalDeductions).Sub(s.TotalBonuses).Sub(s.OvertimePay)
}

func (s Snapshot) ToResult() Result {
	r := Result{
		EmployeeID:      s.EmployeeID,
		Period:          PeriodOf(s.Period),
		Status:          StatusFinalized,
		BaseAmount:      s.BaseAmount,
		DaysWorked:      s.DaysWorked,
		DaysAbsent:      s.DaysAbsent,
		BaseEarned:      s.ImpliedBaseEarned(),
		OvertimeHours:   s.OvertimeHours,
		OvertimePay:     s.OvertimePay,
		TotalBonuses:    s.TotalBonuses,
		TotalDeductions: s.TotalDeductions,
		NetPayable:      s.NetPayable,
	}
	if s.EmployeeName != nil {
		r.EmployeeName = *s.EmployeeName
	}
	return r
}

// SealSummary counts the snapshots written by one seal run.
type SealSummary struct {
	Period  string `json:"period"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}
