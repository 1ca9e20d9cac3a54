package attendance

import "context"

type AttendanceService interface {
	// RecordAttendance creates or updates one day for one employee
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)

	// BulkRecordMonth saves a whole month for one employee; days without a status are skipped
	BulkRecordMonth(ctx context.Context, req BulkAttendanceRequest) (BulkAttendanceResponse, error)

	// GetDailyRollCall lists every active employee with their record for a date
	GetDailyRollCall(ctx context.Context, date string) (DailyRollCallResponse, error)

	// GetMonthlyLog returns the clock-in/clock-out log of one employee for a month
	GetMonthlyLog(ctx context.Context, employeeID string, year, month int) (MonthlyLogResponse, error)
}
