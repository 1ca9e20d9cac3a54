package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.status, a.clock_in, a.clock_out,
	a.overtime_hours, a.manual_overtime_hours, a.created_at, a.updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func clockToPg(t *attendance.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func clockFromPg(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := attendance.TimeOfDayFromDuration(time.Duration(t.Microseconds) * time.Microsecond)
	return &tod
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a                 attendance.Attendance
		clockIn, clockOut pgtype.Time
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status, &clockIn, &clockOut,
		&a.OvertimeHours, &a.ManualOvertimeHours, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.ClockIn = clockFromPg(clockIn)
	a.ClockOut = clockFromPg(clockOut)
	return a, nil
}

func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances AS a (
			id, employee_id, date, status, clock_in, clock_out,
			overtime_hours, manual_overtime_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			overtime_hours = EXCLUDED.overtime_hours,
			manual_overtime_hours = COALESCE(EXCLUDED.manual_overtime_hours, a.manual_overtime_hours),
			updated_at = NOW()
		RETURNING` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.Date, a.Status, clockToPg(a.ClockIn), clockToPg(a.ClockOut),
		a.OvertimeHours, a.ManualOvertimeHours,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return saved, nil
}

// ListByEmployeePeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]attendance.Attendance, error) {
	start, end := monthBounds(year, month)
	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a.date
	`
	return r.list(ctx, query, employeeID, start, end)
}

// ListByPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByPeriod(ctx context.Context, year, month int) ([]attendance.Attendance, error) {
	start, end := monthBounds(year, month)
	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		WHERE a.date >= $1 AND a.date < $2
		ORDER BY a.employee_id, a.date
	`
	return r.list(ctx, query, start, end)
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		WHERE a.date = $1
		ORDER BY a.employee_id
	`
	return r.list(ctx, query, date)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
