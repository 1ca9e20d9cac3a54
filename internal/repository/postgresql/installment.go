package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const installmentColumns = `
	id, employee_id, issue_date, total_amount, installment_count,
	monthly_deduction, note, completed, created_at, updated_at`

type installmentRepositoryImpl struct {
	db *database.DB
}

func NewInstallmentRepository(db *database.DB) installment.InstallmentRepository {
	return &installmentRepositoryImpl{db: db}
}

func scanAdvance(row pgx.Row) (installment.Advance, error) {
	var a installment.Advance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.IssueDate, &a.TotalAmount, &a.InstallmentCount,
		&a.MonthlyDeduction, &a.Note, &a.Completed, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements installment.InstallmentRepository.
func (r *installmentRepositoryImpl) Create(ctx context.Context, a installment.Advance) (installment.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO installment_advances (
			id, employee_id, issue_date, total_amount, installment_count, monthly_deduction, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + installmentColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.IssueDate, a.TotalAmount, a.InstallmentCount, a.MonthlyDeduction, a.Note,
	))
	if err != nil {
		return installment.Advance{}, fmt.Errorf("failed to create installment advance: %w", err)
	}

	return created, nil
}

// GetByID implements installment.InstallmentRepository.
func (r *installmentRepositoryImpl) GetByID(ctx context.Context, id string) (installment.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + installmentColumns + ` FROM installment_advances WHERE id = $1`

	a, err := scanAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return installment.Advance{}, installment.ErrInstallmentNotFound
		}
		return installment.Advance{}, fmt.Errorf("failed to get installment advance: %w", err)
	}

	return a, nil
}

// MarkCompleted implements installment.InstallmentRepository.
func (r *installmentRepositoryImpl) MarkCompleted(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE installment_advances
		SET completed = TRUE, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to complete installment advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return installment.ErrInstallmentNotFound
	}

	return nil
}

// ListByEmployee implements installment.InstallmentRepository.
func (r *installmentRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]installment.Advance, error) {
	query := `SELECT` + installmentColumns + `
		FROM installment_advances
		WHERE employee_id = $1
		ORDER BY issue_date DESC, created_at DESC
	`
	return r.list(ctx, query, employeeID)
}

// ListOpenByEmployee implements installment.InstallmentRepository.
func (r *installmentRepositoryImpl) ListOpenByEmployee(ctx context.Context, employeeID string) ([]installment.Advance, error) {
	query := `SELECT` + installmentColumns + `
		FROM installment_advances
		WHERE employee_id = $1 AND NOT completed
		ORDER BY issue_date, created_at
	`
	return r.list(ctx, query, employeeID)
}

// ListOpen implements installment.InstallmentRepository.
func (r *installmentRepositoryImpl) ListOpen(ctx context.Context) ([]installment.Advance, error) {
	query := `SELECT` + installmentColumns + `
		FROM installment_advances
		WHERE NOT completed
		ORDER BY employee_id, issue_date, created_at
	`
	return r.list(ctx, query)
}

func (r *installmentRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]installment.Advance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list installment advances: %w", err)
	}
	defer rows.Close()

	var advances []installment.Advance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment advance: %w", err)
		}
		advances = append(advances, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return advances, nil
}
