package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	transactionRepo transaction.TransactionRepository
	installmentRepo installment.InstallmentRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	transactionRepo transaction.TransactionRepository,
	installmentRepo installment.InstallmentRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:    employeeRepo,
		transactionRepo: transactionRepo,
		installmentRepo: installmentRepo,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByNationalID(ctx, req.NationalID, nil)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check national id existence: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrNationalIDExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	hireDate, _ := time.Parse(time.DateOnly, req.HireDate)

	newEmployee := employee.Employee{
		ID:                 id.String(),
		NationalID:         req.NationalID,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		PhoneNumber:        req.PhoneNumber,
		IBAN:               normalizeIBAN(req.IBAN),
		BankName:           req.BankName,
		CompensationMode:   employee.CompensationMode(req.CompensationMode),
		BaseAmount:         req.BaseAmount,
		OvertimeRate:       employee.DefaultOvertimeRate,
		StandardDailyHours: employee.DefaultStandardDailyHours,
		HireDate:           hireDate,
		IsActive:           true,
	}
	if req.OvertimeRate != nil {
		newEmployee.OvertimeRate = *req.OvertimeRate
	}
	if req.StandardDailyHours != nil {
		newEmployee.StandardDailyHours = *req.StandardDailyHours
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		if errors.Is(err, employee.ErrNationalIDExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID)

	return employee.ToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// GetEmployeeDetail implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployeeDetail(ctx context.Context, id string, year, month int) (employee.EmployeeDetailResponse, error) {
	if _, err := payroll.NewPeriod(year, month); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	transactions, err := s.transactionRepo.ListByEmployeePeriod(ctx, id, year, month)
	if err != nil {
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	advances, err := s.installmentRepo.ListByEmployee(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to list installments: %w", err)
	}

	return employee.EmployeeDetailResponse{
		Employee:     employee.ToResponse(emp),
		Year:         year,
		Month:        month,
		Transactions: transaction.ToResponses(transactions),
		Installments: installment.ToResponses(advances),
	}, nil
}

// ListActiveEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListActiveEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.ToResponse(e))
	}
	return resp, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.IsActive != nil && !*req.IsActive && !emp.IsActive {
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyInactive
	}

	if req.NationalID != nil && *req.NationalID != emp.NationalID {
		exists, err := s.employeeRepo.ExistsByNationalID(ctx, *req.NationalID, &emp.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check national id existence: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrNationalIDExists
		}
		emp.NationalID = *req.NationalID
	}
	if req.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		emp.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		emp.PhoneNumber = *req.PhoneNumber
	}
	if req.IBAN != nil {
		emp.IBAN = normalizeIBAN(req.IBAN)
	}
	if req.BankName != nil {
		emp.BankName = req.BankName
	}
	if req.CompensationMode != nil {
		emp.CompensationMode = employee.CompensationMode(*req.CompensationMode)
	}
	if req.BaseAmount != nil {
		emp.BaseAmount = *req.BaseAmount
	}
	if req.OvertimeRate != nil {
		emp.OvertimeRate = *req.OvertimeRate
	}
	if req.StandardDailyHours != nil {
		emp.StandardDailyHours = *req.StandardDailyHours
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, employee.ErrNationalIDExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	if req.IsActive != nil && !*req.IsActive {
		slog.InfoContext(ctx, "employee deactivated", "employee_id", updated.ID)
	}

	return employee.ToResponse(updated), nil
}

// normalizeIBAN stores IBANs upper-cased without spaces.
func normalizeIBAN(iban *string) *string {
	if iban == nil {
		return nil
	}
	v := strings.ToUpper(strings.ReplaceAll(*iban, " ", ""))
	if v == "" {
		return nil
	}
	return &v
}
