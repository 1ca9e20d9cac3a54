package installment

import "context"

type InstallmentRepository interface {
	Create(ctx context.Context, a Advance) (Advance, error)
	GetByID(ctx context.Context, id string) (Advance, error)
	MarkCompleted(ctx context.Context, id string) error

	// ListByEmployee returns every advance of the employee, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Advance, error)

	// ListOpenByEmployee returns the employee's incomplete advances. There is no
	// period filter: an open advance is deducted every month.
	ListOpenByEmployee(ctx context.Context, employeeID string) ([]Advance, error)

	// ListOpen returns incomplete advances of all employees.
	ListOpen(ctx context.Context) ([]Advance, error)
}
