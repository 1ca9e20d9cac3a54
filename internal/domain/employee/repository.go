package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByNationalID(ctx context.Context, nationalID string, excludeID *string) (bool, error)
	Update(ctx context.Context, e Employee) (Employee, error)

	// ListActive returns active employees ordered by name.
	ListActive(ctx context.Context) ([]Employee, error)
}
