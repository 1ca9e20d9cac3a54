package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountActiveEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// CountPresentOn implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountPresentOn(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendances
		WHERE date = $1 AND status IN ('present', 'present_rest_day')
	`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count present employees: %w", err)
	}
	return count, nil
}

// SumDeductionsForMonth implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) SumDeductionsForMonth(ctx context.Context, year, month int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)
	start, end := monthBounds(year, month)

	kinds := make([]string, 0, 3)
	for _, k := range transaction.DeductiveKinds() {
		kinds = append(kinds, string(k))
	}

	var total decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM financial_transactions
		WHERE date >= $1 AND date < $2 AND kind = ANY($3)
	`, start, end, kinds).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum monthly deductions: %w", err)
	}
	return total, nil
}

// ListRecentTransactions implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) ListRecentTransactions(ctx context.Context, limit int) ([]transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT t.id, t.employee_id, t.date, t.kind, t.amount, t.note, t.created_at,
			e.first_name || ' ' || e.last_name
		FROM financial_transactions t
		JOIN employees e ON e.id = t.employee_id
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	var txs []transaction.Transaction
	for rows.Next() {
		var (
			t    transaction.Transaction
			name string
		)
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.Date, &t.Kind, &t.Amount, &t.Note, &t.CreatedAt, &name); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.EmployeeName = &name
		txs = append(txs, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return txs, nil
}
