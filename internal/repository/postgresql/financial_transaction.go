package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, employee_id, date, kind, amount, note, created_at`

type transactionRepositoryImpl struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) transaction.TransactionRepository {
	return &transactionRepositoryImpl{db: db}
}

func scanTransaction(row pgx.Row) (transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(&t.ID, &t.EmployeeID, &t.Date, &t.Kind, &t.Amount, &t.Note, &t.CreatedAt)
	return t, err
}

// Create implements transaction.TransactionRepository.
func (r *transactionRepositoryImpl) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO financial_transactions (id, employee_id, date, kind, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(q.QueryRow(ctx, query, t.ID, t.EmployeeID, t.Date, t.Kind, t.Amount, t.Note))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return created, nil
}

// GetByID implements transaction.TransactionRepository.
func (r *transactionRepositoryImpl) GetByID(ctx context.Context, id string) (transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + transactionColumns + ` FROM financial_transactions WHERE id = $1`

	t, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return transaction.Transaction{}, transaction.ErrTransactionNotFound
		}
		return transaction.Transaction{}, fmt.Errorf("failed to get transaction by id: %w", err)
	}

	return t, nil
}

// Delete implements transaction.TransactionRepository.
func (r *transactionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM financial_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound
	}

	return nil
}

// ListByEmployeePeriod implements transaction.TransactionRepository.
func (r *transactionRepositoryImpl) ListByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]transaction.Transaction, error) {
	start, end := monthBounds(year, month)
	query := `SELECT ` + transactionColumns + `
		FROM financial_transactions
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, created_at
	`
	return r.list(ctx, query, employeeID, start, end)
}

// ListByPeriod implements transaction.TransactionRepository.
func (r *transactionRepositoryImpl) ListByPeriod(ctx context.Context, year, month int) ([]transaction.Transaction, error) {
	start, end := monthBounds(year, month)
	query := `SELECT ` + transactionColumns + `
		FROM financial_transactions
		WHERE date >= $1 AND date < $2
		ORDER BY employee_id, date, created_at
	`
	return r.list(ctx, query, start, end)
}

func (r *transactionRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]transaction.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return txs, nil
}
