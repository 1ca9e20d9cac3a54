package installment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/google/uuid"
)

type InstallmentServiceImpl struct {
	installmentRepo installment.InstallmentRepository
	employeeRepo    employee.EmployeeRepository
	now             func() time.Time
}

func NewInstallmentService(
	installmentRepo installment.InstallmentRepository,
	employeeRepo employee.EmployeeRepository,
) installment.InstallmentService {
	return &InstallmentServiceImpl{
		installmentRepo: installmentRepo,
		employeeRepo:    employeeRepo,
		now:             time.Now,
	}
}

// CreateInstallment implements installment.InstallmentService.
func (s *InstallmentServiceImpl) CreateInstallment(ctx context.Context, req installment.CreateInstallmentRequest) (installment.InstallmentResponse, error) {
	if err := req.Validate(); err != nil {
		return installment.InstallmentResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return installment.InstallmentResponse{}, err
	}

	issueDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.IssueDate != "" {
		issueDate, _ = time.Parse(time.DateOnly, req.IssueDate)
	}

	monthly := installment.DefaultMonthlyDeduction(req.TotalAmount, req.InstallmentCount)
	if req.MonthlyDeduction != nil {
		monthly = *req.MonthlyDeduction
	}

	id, err := uuid.NewV7()
	if err != nil {
		return installment.InstallmentResponse{}, fmt.Errorf("failed to generate installment id: %w", err)
	}

	created, err := s.installmentRepo.Create(ctx, installment.Advance{
		ID:               id.String(),
		EmployeeID:       req.EmployeeID,
		IssueDate:        issueDate,
		TotalAmount:      req.TotalAmount,
		InstallmentCount: req.InstallmentCount,
		MonthlyDeduction: monthly,
		Note:             req.Note,
	})
	if err != nil {
		return installment.InstallmentResponse{}, fmt.Errorf("failed to create installment: %w", err)
	}

	return installment.ToResponse(created), nil
}

// ListByEmployee implements installment.InstallmentService.
func (s *InstallmentServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]installment.InstallmentResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	advances, err := s.installmentRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	return installment.ToResponses(advances), nil
}

// MarkCompleted implements installment.InstallmentService. Completed advances
// are no longer deducted.
func (s *InstallmentServiceImpl) MarkCompleted(ctx context.Context, id string) (installment.InstallmentResponse, error) {
	advance, err := s.installmentRepo.GetByID(ctx, id)
	if err != nil {
		return installment.InstallmentResponse{}, err
	}
	if advance.Completed {
		return installment.InstallmentResponse{}, installment.ErrInstallmentAlreadyCompleted
	}

	if err := s.installmentRepo.MarkCompleted(ctx, id); err != nil {
		return installment.InstallmentResponse{}, err
	}
	advance.Completed = true

	slog.InfoContext(ctx, "installment completed", "installment_id", id, "employee_id", advance.EmployeeID)

	return installment.ToResponse(advance), nil
}
