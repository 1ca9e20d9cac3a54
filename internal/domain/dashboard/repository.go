package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// CountActiveEmployees returns the active headcount
	CountActiveEmployees(ctx context.Context) (int64, error)

	// CountPresentOn returns employees with a worked status on date
	CountPresentOn(ctx context.Context, date time.Time) (int64, error)

	// SumDeductionsForMonth totals deductive transactions dated in the month
	SumDeductionsForMonth(ctx context.Context, year, month int) (decimal.Decimal, error)

	// ListRecentTransactions returns the latest transactions with employee names
	ListRecentTransactions(ctx context.Context, limit int) ([]transaction.Transaction, error)
}
