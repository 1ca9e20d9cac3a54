package installment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is a large advance repaid through a fixed monthly deduction until it
// is marked completed.
type Advance struct {
	ID               string
	EmployeeID       string
	IssueDate        time.Time
	TotalAmount      decimal.Decimal
	InstallmentCount int
	MonthlyDeduction decimal.Decimal
	Note             *string
	Completed        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultMonthlyDeduction splits total evenly over count, rounded to cents.
func DefaultMonthlyDeduction(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return total
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}
