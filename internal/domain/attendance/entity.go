package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Attendance struct {
	ID                  string
	EmployeeID          string
	Date                time.Time
	Status              Status
	ClockIn             *TimeOfDay
	ClockOut            *TimeOfDay
	OvertimeHours       decimal.Decimal  // derived, signed
	ManualOvertimeHours *decimal.Decimal // informational only
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// DTO / Join
	EmployeeName *string
}

type Status string

const (
	StatusPresent        Status = "present"
	StatusPresentRestDay Status = "present_rest_day"
	StatusAbsent         Status = "absent"
	StatusPaidLeave      Status = "paid_leave"
	StatusUnpaidLeave    Status = "unpaid_leave"
	StatusSickLeave      Status = "sick_leave"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusPresentRestDay, StatusAbsent,
		StatusPaidLeave, StatusUnpaidLeave, StatusSickLeave:
		return true
	}
	return false
}

// IsWorked reports whether the day counts as worked.
func (s Status) IsWorked() bool {
	return s == StatusPresent || s == StatusPresentRestDay
}

// IsUnpaidAbsence reports whether the day is deducted from a monthly salary.
func (s Status) IsUnpaidAbsence() bool {
	return s == StatusAbsent || s == StatusUnpaidLeave
}

// Recalculate overwrites OvertimeHours from the clock times. It must run on
// every save.
func (a *Attendance) Recalculate(standardDailyHours int) {
	a.OvertimeHours = DeriveOvertime(a.Status, a.ClockIn, a.ClockOut, standardDailyHours)
}
