package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type PayrollServiceImpl struct {
	transactor      database.Transactor
	employeeRepo    employee.EmployeeRepository
	attendanceRepo  attendance.AttendanceRepository
	transactionRepo transaction.TransactionRepository
	installmentRepo installment.InstallmentRepository
	snapshotRepo    payroll.SnapshotRepository
	cache           payroll.ReportCache // nil disables caching

	live singleflight.Group
}

func NewPayrollService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	transactionRepo transaction.TransactionRepository,
	installmentRepo installment.InstallmentRepository,
	snapshotRepo payroll.SnapshotRepository,
	cache payroll.ReportCache,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:      transactor,
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		transactionRepo: transactionRepo,
		installmentRepo: installmentRepo,
		snapshotRepo:    snapshotRepo,
		cache:           cache,
	}
}

// ========== PERIOD REPORT ==========

func (s *PayrollServiceImpl) ComputePeriodReport(ctx context.Context, year, month int) (payroll.PeriodReportResponse, error) {
	period, err := payroll.NewPeriod(year, month)
	if err != nil {
		return payroll.PeriodReportResponse{}, err
	}

	if s.cache != nil {
		report, ok, err := s.cache.Get(ctx, period)
		if err != nil {
			slog.WarnContext(ctx, "payroll report cache read failed", "period", period.String(), "error", err)
		} else if ok {
			return report, nil
		}
	}

	finalized, err := s.snapshotRepo.ExistsForPeriod(ctx, period)
	if err != nil {
		return payroll.PeriodReportResponse{}, fmt.Errorf("failed to check snapshots for %s: %w", period, err)
	}

	if finalized {
		report, err := s.finalizedReport(ctx, period)
		if err != nil {
			return payroll.PeriodReportResponse{}, err
		}
		s.storeReport(ctx, period, report)
		return report, nil
	}

	// Identical live requests share one computation. It runs detached from
	// the first caller's cancellation so the others are not failed by it.
	v, err, _ := s.live.Do(period.String(), func() (any, error) {
		return s.computeLive(context.WithoutCancel(ctx), period)
	})
	if err != nil {
		return payroll.PeriodReportResponse{}, err
	}

	return payroll.NewPeriodReport(period, false, v.([]payroll.Result)), nil
}

func (s *PayrollServiceImpl) finalizedReport(ctx context.Context, period payroll.Period) (payroll.PeriodReportResponse, error) {
	snapshots, err := s.snapshotRepo.ListByPeriod(ctx, period)
	if err != nil {
		return payroll.PeriodReportResponse{}, fmt.Errorf("failed to list snapshots for %s: %w", period, err)
	}

	results := make([]payroll.Result, 0, len(snapshots))
	for _, snap := range snapshots {
		results = append(results, snap.ToResult())
	}

	return payroll.NewPeriodReport(period, true, results), nil
}

func (s *PayrollServiceImpl) storeReport(ctx context.Context, period payroll.Period, report payroll.PeriodReportResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, period, report); err != nil {
		slog.WarnContext(ctx, "payroll report cache write failed", "period", period.String(), "error", err)
	}
}

// computeLive aggregates every active employee from the current data. It
// queries sequentially so it can run on a transaction-bound context.
func (s *PayrollServiceImpl) computeLive(ctx context.Context, period payroll.Period) ([]payroll.Result, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	records, err := s.attendanceRepo.ListByPeriod(ctx, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", period, err)
	}

	transactions, err := s.transactionRepo.ListByPeriod(ctx, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", period, err)
	}

	advances, err := s.installmentRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open installments: %w", err)
	}

	recordsByEmployee := make(map[string][]attendance.Attendance)
	for _, r := range records {
		recordsByEmployee[r.EmployeeID] = append(recordsByEmployee[r.EmployeeID], r)
	}
	transactionsByEmployee := make(map[string][]transaction.Transaction)
	for _, t := range transactions {
		transactionsByEmployee[t.EmployeeID] = append(transactionsByEmployee[t.EmployeeID], t)
	}
	advancesByEmployee := make(map[string][]installment.Advance)
	for _, a := range advances {
		advancesByEmployee[a.EmployeeID] = append(advancesByEmployee[a.EmployeeID], a)
	}

	results := make([]payroll.Result, 0, len(employees))
	for _, emp := range employees {
		results = append(results, payroll.Compute(
			emp,
			period,
			recordsByEmployee[emp.ID],
			transactionsByEmployee[emp.ID],
			advancesByEmployee[emp.ID],
		))
	}

	return results, nil
}

// ========== PAYSLIP ==========

func (s *PayrollServiceImpl) ComputeEmployeeReport(ctx context.Context, employeeID string, year, month int) (payroll.PayslipResponse, error) {
	period, err := payroll.NewPeriod(year, month)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	transactions, err := s.transactionRepo.ListByEmployeePeriod(ctx, employeeID, year, month)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	advances, err := s.installmentRepo.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to list open installments: %w", err)
	}

	sealed, err := s.snapshotRepo.ExistsForEmployee(ctx, employeeID, period)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to check snapshot: %w", err)
	}

	resp := payroll.PayslipResponse{
		Period:           period.String(),
		Bonuses:          []transaction.TransactionResponse{},
		Deductions:       []transaction.TransactionResponse{},
		OpenInstallments: installment.ToResponses(advances),
	}
	for _, t := range transactions {
		if t.Kind.IsAdditive() {
			resp.Bonuses = append(resp.Bonuses, transaction.ToResponse(t))
		} else {
			resp.Deductions = append(resp.Deductions, transaction.ToResponse(t))
		}
	}

	if sealed {
		snap, err := s.snapshotRepo.GetByEmployeePeriod(ctx, employeeID, period)
		if err != nil {
			return payroll.PayslipResponse{}, fmt.Errorf("failed to get snapshot: %w", err)
		}
		result := snap.ToResult()
		if result.EmployeeName == "" {
			result.EmployeeName = emp.FullName()
		}
		resp.Result = payroll.ToResultResponse(result)
		return resp, nil
	}

	records, err := s.attendanceRepo.ListByEmployeePeriod(ctx, employeeID, year, month)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	result := payroll.Compute(emp, period, records, transactions, advances)
	resp.Result = payroll.ToResultResponse(result)
	resp.InstallmentDeduction = &result.InstallmentDeduction

	return resp, nil
}

// ========== SEAL ==========

func (s *PayrollServiceImpl) SealPeriod(ctx context.Context, req payroll.SealPeriodRequest, callerHasSealAuthority bool) (payroll.SealSummary, error) {
	if !callerHasSealAuthority {
		return payroll.SealSummary{}, payroll.ErrSealNotAuthorized
	}

	if err := req.Validate(); err != nil {
		return payroll.SealSummary{}, err
	}

	period, err := payroll.NewPeriod(req.Year, req.Month)
	if err != nil {
		return payroll.SealSummary{}, err
	}

	summary := payroll.SealSummary{Period: period.String()}

	err = s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.snapshotRepo.LockPeriod(txCtx, period); err != nil {
			return err
		}

		results, err := s.computeLive(txCtx, period)
		if err != nil {
			return err
		}

		created, updated := 0, 0
		for _, r := range results {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate snapshot id: %w", err)
			}
			snap := payroll.SnapshotFromResult(r)
			snap.ID = id.String()

			// an existing row keeps its id on conflict
			_, inserted, err := s.snapshotRepo.Upsert(txCtx, snap)
			if err != nil {
				return err
			}
			if inserted {
				created++
			} else {
				updated++
			}
		}
		summary.Created, summary.Updated = created, updated
		return nil
	})
	if err != nil {
		return payroll.SealSummary{}, fmt.Errorf("failed to seal payroll period %s: %w", period, err)
	}

	slog.InfoContext(ctx, "payroll period sealed",
		"period", summary.Period,
		"created", summary.Created,
		"updated", summary.Updated,
	)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, period); err != nil {
			slog.WarnContext(ctx, "payroll report cache invalidation failed", "period", period.String(), "error", err)
		}
	}

	return summary, nil
}

// ========== CACHE ==========

func (s *PayrollServiceImpl) WarmReportCache(ctx context.Context, period payroll.Period) error {
	if s.cache == nil {
		return nil
	}

	finalized, err := s.snapshotRepo.ExistsForPeriod(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to check snapshots for %s: %w", period, err)
	}
	if !finalized {
		return nil
	}

	report, err := s.finalizedReport(ctx, period)
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, period, report); err != nil {
		return fmt.Errorf("failed to warm report cache: %w", err)
	}
	return nil
}
