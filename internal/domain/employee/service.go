package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee registers a new employee
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee returns one employee, active or not
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// GetEmployeeDetail returns the employee with the month's transactions and all installments
	GetEmployeeDetail(ctx context.Context, id string, year, month int) (EmployeeDetailResponse, error)

	// ListActiveEmployees lists employees included in payroll runs
	ListActiveEmployees(ctx context.Context) ([]EmployeeResponse, error)

	// UpdateEmployee applies a partial update, including deactivation
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
}
