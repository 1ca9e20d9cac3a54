package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var maxOvertimeHours = decimal.NewFromInt(100)

// RecordAttendanceRequest saves one day. Clock times are free text: anything
// that is not HH:MM or HH:MM:SS is stored as not recorded.
type RecordAttendanceRequest struct {
	EmployeeID          string           `json:"employee_id"`
	Date                string           `json:"date"`
	Status              string           `json:"status"`
	ClockIn             string           `json:"clock_in"`
	ClockOut            string           `json:"clock_out"`
	ManualOvertimeHours *decimal.Decimal `json:"manual_overtime_hours,omitempty"`
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: ErrInvalidStatus.Error()})
	}
	if r.ManualOvertimeHours != nil && r.ManualOvertimeHours.Abs().GreaterThanOrEqual(maxOvertimeHours) {
		errs = append(errs, validator.ValidationError{Field: "manual_overtime_hours", Message: "must be between -99.99 and 99.99"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkDayEntry struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out"`
}

type BulkAttendanceRequest struct {
	EmployeeID string         `json:"-"`
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Days       []BulkDayEntry `json:"days"`
}

func (r *BulkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidPeriod(r.Year, r.Month) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "invalid year or month"})
		return errs
	}

	for i, day := range r.Days {
		field := fmt.Sprintf("days[%d]", i)
		date, ok := validator.IsValidDate(day.Date)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: field + ".date", Message: "must be in YYYY-MM-DD format"})
			continue
		}
		if date.Year() != r.Year || int(date.Month()) != r.Month {
			errs = append(errs, validator.ValidationError{Field: field + ".date", Message: ErrDateOutsidePeriod.Error()})
		}
		if day.Status != "" && !Status(day.Status).IsValid() {
			errs = append(errs, validator.ValidationError{Field: field + ".status", Message: ErrInvalidStatus.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                  string           `json:"id"`
	EmployeeID          string           `json:"employee_id"`
	EmployeeName        *string          `json:"employee_name,omitempty"`
	Date                string           `json:"date"`
	Status              string           `json:"status"`
	ClockIn             *string          `json:"clock_in"`
	ClockOut            *string          `json:"clock_out"`
	OvertimeHours       decimal.Decimal  `json:"overtime_hours"`
	ManualOvertimeHours *decimal.Decimal `json:"manual_overtime_hours,omitempty"`
}

type BulkAttendanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Saved      int    `json:"saved"`
	Skipped    int    `json:"skipped"`
}

type RollCallEntry struct {
	EmployeeID   string              `json:"employee_id"`
	EmployeeName string              `json:"employee_name"`
	Record       *AttendanceResponse `json:"record"`
}

type DailyRollCallResponse struct {
	Date    string          `json:"date"`
	Entries []RollCallEntry `json:"entries"`
}

type MonthlyLogResponse struct {
	EmployeeID         string               `json:"employee_id"`
	Year               int                  `json:"year"`
	Month              int                  `json:"month"`
	Records            []AttendanceResponse `json:"records"`
	TotalOvertimeHours decimal.Decimal      `json:"total_overtime_hours"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                  a.ID,
		EmployeeID:          a.EmployeeID,
		EmployeeName:        a.EmployeeName,
		Date:                a.Date.Format(time.DateOnly),
		Status:              string(a.Status),
		OvertimeHours:       a.OvertimeHours,
		ManualOvertimeHours: a.ManualOvertimeHours,
	}
	if a.ClockIn != nil {
		s := a.ClockIn.String()
		resp.ClockIn = &s
	}
	if a.ClockOut != nil {
		s := a.ClockOut.String()
		resp.ClockOut = &s
	}
	return resp
}
