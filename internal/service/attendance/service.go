package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	transactor     database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		transactor:     transactor,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

// save derives overtime from the employee's standard hours and upserts the day.
func (a *AttendanceServiceImpl) save(ctx context.Context, emp employee.Employee, record attendance.Attendance) (attendance.Attendance, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	record.ID = id.String()
	record.EmployeeID = emp.ID
	record.Recalculate(emp.StandardDailyHours)

	saved, err := a.attendanceRepo.Upsert(ctx, record)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save attendance for %s: %w", record.Date.Format(time.DateOnly), err)
	}

	name := emp.FullName()
	saved.EmployeeName = &name
	return saved, nil
}

// RecordAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse(time.DateOnly, req.Date)

	saved, err := a.save(ctx, emp, attendance.Attendance{
		Date:                date,
		Status:              attendance.Status(req.Status),
		ClockIn:             attendance.ParseClock(req.ClockIn),
		ClockOut:            attendance.ParseClock(req.ClockOut),
		ManualOvertimeHours: req.ManualOvertimeHours,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(saved), nil
}

// BulkRecordMonth implements attendance.AttendanceService. The whole month is
// saved in one transaction.
func (a *AttendanceServiceImpl) BulkRecordMonth(ctx context.Context, req attendance.BulkAttendanceRequest) (attendance.BulkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkAttendanceResponse{}, err
	}

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.BulkAttendanceResponse{}, err
	}

	resp := attendance.BulkAttendanceResponse{
		EmployeeID: emp.ID,
		Year:       req.Year,
		Month:      req.Month,
	}

	err = a.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		saved, skipped := 0, 0
		for _, day := range req.Days {
			if day.Status == "" {
				skipped++
				continue
			}

			date, _ := time.Parse(time.DateOnly, day.Date)
			if _, err := a.save(txCtx, emp, attendance.Attendance{
				Date:     date,
				Status:   attendance.Status(day.Status),
				ClockIn:  attendance.ParseClock(day.ClockIn),
				ClockOut: attendance.ParseClock(day.ClockOut),
			}); err != nil {
				return err
			}
			saved++
		}
		resp.Saved, resp.Skipped = saved, skipped
		return nil
	})
	if err != nil {
		return attendance.BulkAttendanceResponse{}, err
	}

	return resp, nil
}

// GetDailyRollCall implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDailyRollCall(ctx context.Context, date string) (attendance.DailyRollCallResponse, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return attendance.DailyRollCallResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "must be in YYYY-MM-DD format"},
		}
	}

	employees, err := a.employeeRepo.ListActive(ctx)
	if err != nil {
		return attendance.DailyRollCallResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := a.attendanceRepo.ListByDate(ctx, day)
	if err != nil {
		return attendance.DailyRollCallResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byEmployee := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byEmployee[r.EmployeeID] = r
	}

	resp := attendance.DailyRollCallResponse{
		Date:    day.Format(time.DateOnly),
		Entries: make([]attendance.RollCallEntry, 0, len(employees)),
	}
	for _, emp := range employees {
		entry := attendance.RollCallEntry{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName(),
		}
		if r, ok := byEmployee[emp.ID]; ok {
			rec := attendance.ToResponse(r)
			entry.Record = &rec
		}
		resp.Entries = append(resp.Entries, entry)
	}

	return resp, nil
}

// GetMonthlyLog implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlyLog(ctx context.Context, employeeID string, year, month int) (attendance.MonthlyLogResponse, error) {
	if _, err := payroll.NewPeriod(year, month); err != nil {
		return attendance.MonthlyLogResponse{}, err
	}

	if _, err := a.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.MonthlyLogResponse{}, err
	}

	records, err := a.attendanceRepo.ListByEmployeePeriod(ctx, employeeID, year, month)
	if err != nil {
		return attendance.MonthlyLogResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.MonthlyLogResponse{
		EmployeeID:         employeeID,
		Year:               year,
		Month:              month,
		Records:            make([]attendance.AttendanceResponse, 0, len(records)),
		TotalOvertimeHours: decimal.Zero,
	}
	for _, r := range records {
		resp.Records = append(resp.Records, attendance.ToResponse(r))
		resp.TotalOvertimeHours = resp.TotalOvertimeHours.Add(r.OvertimeHours)
	}

	return resp, nil
}
