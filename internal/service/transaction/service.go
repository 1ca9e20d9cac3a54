package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type TransactionServiceImpl struct {
	transactor      database.Transactor
	transactionRepo transaction.TransactionRepository
	employeeRepo    employee.EmployeeRepository
	snapshotRepo    payroll.SnapshotRepository
	now             func() time.Time
}

func NewTransactionService(
	transactor database.Transactor,
	transactionRepo transaction.TransactionRepository,
	employeeRepo employee.EmployeeRepository,
	snapshotRepo payroll.SnapshotRepository,
) transaction.TransactionService {
	return &TransactionServiceImpl{
		transactor:      transactor,
		transactionRepo: transactionRepo,
		employeeRepo:    employeeRepo,
		snapshotRepo:    snapshotRepo,
		now:             time.Now,
	}
}

// CreateTransaction implements transaction.TransactionService.
func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, req transaction.CreateTransactionRequest) (transaction.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return transaction.TransactionResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	date := s.now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		date, _ = time.Parse(time.DateOnly, req.Date)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return transaction.TransactionResponse{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	created, err := s.transactionRepo.Create(ctx, transaction.Transaction{
		ID:         id.String(),
		EmployeeID: emp.ID,
		Date:       date,
		Kind:       transaction.Kind(req.Kind),
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		return transaction.TransactionResponse{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	name := emp.FullName()
	created.EmployeeName = &name
	return transaction.ToResponse(created), nil
}

// DeleteTransaction implements transaction.TransactionService. A transaction
// whose month is sealed for its employee cannot be removed.
func (s *TransactionServiceImpl) DeleteTransaction(ctx context.Context, id string) error {
	var deleted transaction.Transaction

	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := s.transactionRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		sealed, err := s.snapshotRepo.ExistsForEmployee(txCtx, t.EmployeeID, payroll.PeriodOf(t.Date))
		if err != nil {
			return fmt.Errorf("failed to check snapshot: %w", err)
		}
		if sealed {
			return payroll.ErrPeriodClosed
		}

		if err := s.transactionRepo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "transaction deleted",
		"transaction_id", deleted.ID,
		"employee_id", deleted.EmployeeID,
		"kind", string(deleted.Kind),
		"amount", deleted.Amount.String(),
	)
	return nil
}
