package payroll

import "context"

// SnapshotRepository stores frozen payroll keyed by (employee, period).
type SnapshotRepository interface {
	// LockPeriod serializes writers of one period until the surrounding
	// transaction ends. Must be called inside a transaction.
	LockPeriod(ctx context.Context, period Period) error

	// ExistsForPeriod reports whether any employee has a snapshot for the period.
	ExistsForPeriod(ctx context.Context, period Period) (bool, error)

	// ExistsForEmployee reports whether the employee's period is sealed.
	ExistsForEmployee(ctx context.Context, employeeID string, period Period) (bool, error)

	GetByEmployeePeriod(ctx context.Context, employeeID string, period Period) (Snapshot, error)

	// ListByPeriod returns every snapshot of the period with the employee name joined.
	ListByPeriod(ctx context.Context, period Period) ([]Snapshot, error)

	// Upsert writes the snapshot for (employee, period) and reports whether a new row was inserted.
	Upsert(ctx context.Context, snapshot Snapshot) (Snapshot, bool, error)
}

// ReportCache holds finalized period reports. Implementations may be absent.
type ReportCache interface {
	Get(ctx context.Context, period Period) (PeriodReportResponse, bool, error)
	Set(ctx context.Context, period Period, report PeriodReportResponse) error
	Invalidate(ctx context.Context, period Period) error
}
