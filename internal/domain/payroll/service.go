package payroll

import "context"

type PayrollService interface {
	// ComputePeriodReport returns the period's payroll. If any snapshot exists
	// for the period the whole report is read from snapshots, otherwise every
	// active employee is computed live.
	ComputePeriodReport(ctx context.Context, year, month int) (PeriodReportResponse, error)

	// ComputeEmployeeReport returns one employee's payslip, from the snapshot if
	// that employee is sealed for the period, live otherwise.
	ComputeEmployeeReport(ctx context.Context, employeeID string, year, month int) (PayslipResponse, error)

	// SealPeriod freezes the live payroll of every active employee.
	SealPeriod(ctx context.Context, req SealPeriodRequest, callerHasSealAuthority bool) (SealSummary, error)

	// WarmReportCache loads a finalized period into the report cache.
	WarmReportCache(ctx context.Context, period Period) error
}
