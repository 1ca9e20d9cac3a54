package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const snapshotColumns = `
	s.id, s.employee_id, s.period, s.base_amount, s.days_worked, s.days_absent,
	s.overtime_hours, s.overtime_pay, s.total_bonuses, s.total_deductions,
	s.net_payable, s.created_at, s.updated_at`

type snapshotRepository struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) payroll.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func snapshotDest(s *payroll.Snapshot) []any {
	return []any{
		&s.ID, &s.EmployeeID, &s.Period, &s.BaseAmount, &s.DaysWorked, &s.DaysAbsent,
		&s.OvertimeHours, &s.OvertimePay, &s.TotalBonuses, &s.TotalDeductions,
		&s.NetPayable, &s.CreatedAt, &s.UpdatedAt,
	}
}

func sealLockKey(period payroll.Period) string {
	return "payroll:seal:" + period.String()
}

// LockPeriod takes a transaction-scoped advisory lock keyed by the period.
func (r *snapshotRepository) LockPeriod(ctx context.Context, period payroll.Period) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sealLockKey(period)); err != nil {
		return fmt.Errorf("failed to lock payroll period %s: %w", period, err)
	}

	return nil
}

func (r *snapshotRepository) ExistsForPeriod(ctx context.Context, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payroll_snapshots WHERE period = $1)
	`, period.FirstDay()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll snapshots: %w", err)
	}

	return exists, nil
}

func (r *snapshotRepository) ExistsForEmployee(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payroll_snapshots WHERE employee_id = $1 AND period = $2)
	`, employeeID, period.FirstDay()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll snapshot: %w", err)
	}

	return exists, nil
}

func (r *snapshotRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period) (payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + snapshotColumns + `, e.first_name || ' ' || e.last_name
		FROM payroll_snapshots s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1 AND s.period = $2
	`

	var (
		s    payroll.Snapshot
		name string
	)
	err := q.QueryRow(ctx, query, employeeID, period.FirstDay()).Scan(append(snapshotDest(&s), &name)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Snapshot{}, payroll.ErrSnapshotNotFound
		}
		return payroll.Snapshot{}, fmt.Errorf("failed to get payroll snapshot: %w", err)
	}
	s.EmployeeName = &name

	return s, nil
}

func (r *snapshotRepository) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + snapshotColumns + `, e.first_name || ' ' || e.last_name
		FROM payroll_snapshots s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.period = $1
		ORDER BY e.first_name, e.last_name, s.employee_id
	`

	rows, err := q.Query(ctx, query, period.FirstDay())
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []payroll.Snapshot
	for rows.Next() {
		var (
			s    payroll.Snapshot
			name string
		)
		if err := rows.Scan(append(snapshotDest(&s), &name)...); err != nil {
			return nil, fmt.Errorf("failed to scan payroll snapshot: %w", err)
		}
		s.EmployeeName = &name
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// Upsert writes the snapshot keyed by (employee_id, period). xmax is zero only
// for a freshly inserted row version, which tells inserts from updates apart.
func (r *snapshotRepository) Upsert(ctx context.Context, snapshot payroll.Snapshot) (payroll.Snapshot, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_snapshots AS s (
			id, employee_id, period, base_amount, days_worked, days_absent,
			overtime_hours, overtime_pay, total_bonuses, total_deductions, net_payable
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (employee_id, period) DO UPDATE SET
			base_amount = EXCLUDED.base_amount,
			days_worked = EXCLUDED.days_worked,
			days_absent = EXCLUDED.days_absent,
			overtime_hours = EXCLUDED.overtime_hours,
			overtime_pay = EXCLUDED.overtime_pay,
			total_bonuses = EXCLUDED.total_bonuses,
			total_deductions = EXCLUDED.total_deductions,
			net_payable = EXCLUDED.net_payable,
			updated_at = NOW()
		RETURNING` + snapshotColumns + `, (s.xmax = 0)
	`

	var (
		saved   payroll.Snapshot
		created bool
	)
	err := q.QueryRow(ctx, query,
		snapshot.ID, snapshot.EmployeeID, snapshot.Period, snapshot.BaseAmount,
		snapshot.DaysWorked, snapshot.DaysAbsent, snapshot.OvertimeHours, snapshot.OvertimePay,
		snapshot.TotalBonuses, snapshot.TotalDeductions, snapshot.NetPayable,
	).Scan(append(snapshotDest(&saved), &created)...)
	if err != nil {
		return payroll.Snapshot{}, false, fmt.Errorf("failed to upsert payroll snapshot: %w", err)
	}
	saved.EmployeeName = snapshot.EmployeeName

	return saved, created, nil
}
