package transaction

import "context"

type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	Delete(ctx context.Context, id string) error

	// ListByEmployeePeriod returns one employee's transactions dated in a month, ordered by date.
	ListByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]Transaction, error)

	// ListByPeriod returns every transaction dated in a month.
	ListByPeriod(ctx context.Context, year, month int) ([]Transaction, error)
}
