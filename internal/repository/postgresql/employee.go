package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const employeeColumns = `
	id, national_id, first_name, last_name, phone_number, iban, bank_name,
	compensation_mode, base_amount, overtime_rate, standard_daily_hours,
	hire_date, is_active, created_at, updated_at`

// pgerrcode unique_violation
const uniqueViolation = "23505"

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.NationalID, &emp.FirstName, &emp.LastName, &emp.PhoneNumber,
		&emp.IBAN, &emp.BankName, &emp.CompensationMode, &emp.BaseAmount,
		&emp.OvertimeRate, &emp.StandardDailyHours, &emp.HireDate, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, national_id, first_name, last_name, phone_number, iban, bank_name,
			compensation_mode, base_amount, overtime_rate, standard_daily_hours,
			hire_date, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13
		)
		RETURNING` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.NationalID, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.PhoneNumber, newEmployee.IBAN, newEmployee.BankName,
		newEmployee.CompensationMode, newEmployee.BaseAmount, newEmployee.OvertimeRate,
		newEmployee.StandardDailyHours, newEmployee.HireDate, newEmployee.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrNationalIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT` + employeeColumns + `
		FROM employees
		WHERE id = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return emp, nil
}

// ExistsByNationalID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByNationalID(ctx context.Context, nationalID string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM employees
			WHERE national_id = $1 AND ($2::uuid IS NULL OR id <> $2::uuid)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, nationalID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check national id: %w", err)
	}

	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET national_id = $1, first_name = $2, last_name = $3, phone_number = $4, iban = $5,
			bank_name = $6, compensation_mode = $7, base_amount = $8, overtime_rate = $9,
			standard_daily_hours = $10, is_active = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.NationalID, emp.FirstName, emp.LastName, emp.PhoneNumber, emp.IBAN,
		emp.BankName, emp.CompensationMode, emp.BaseAmount, emp.OvertimeRate,
		emp.StandardDailyHours, emp.IsActive, emp.ID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrNationalIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return updated, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT` + employeeColumns + `
		FROM employees
		WHERE is_active = TRUE
		ORDER BY first_name, last_name, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}
