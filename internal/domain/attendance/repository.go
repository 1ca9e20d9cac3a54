package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Upsert inserts or replaces the record for (employee, date).
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployeePeriod returns one employee's records for a month, ordered by date.
	ListByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]Attendance, error)

	// ListByPeriod returns every record in a month, ordered by employee and date.
	ListByPeriod(ctx context.Context, year, month int) ([]Attendance, error)

	// ListByDate returns the records of one day.
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)
}
