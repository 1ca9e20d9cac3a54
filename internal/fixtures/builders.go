package fixtures

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

func StrPtr(s string) *string { return &s }
func IntPtr(i int) *int       { return &i }

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Day(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func Clock(hour, minute int) *attendance.TimeOfDay {
	t := attendance.NewTimeOfDay(hour, minute)
	return &t
}

// MonthlyEmployee is an active salaried employee with default overtime settings.
func MonthlyEmployee(first, last, salary string) employee.Employee {
	return employee.Employee{
		NationalID:         "1" + first[:1] + last[:1] + "00000000",
		FirstName:          first,
		LastName:           last,
		PhoneNumber:        "5551234567",
		CompensationMode:   employee.CompensationMonthly,
		BaseAmount:         Dec(salary),
		OvertimeRate:       employee.DefaultOvertimeRate,
		StandardDailyHours: employee.DefaultStandardDailyHours,
		HireDate:           Day(2023, 1, 2),
		IsActive:           true,
	}
}

// DailyEmployee is an active employee paid per worked day.
func DailyEmployee(first, last, wage string) employee.Employee {
	e := MonthlyEmployee(first, last, wage)
	e.CompensationMode = employee.CompensationDaily
	return e
}

// Worked is a present day with clock times.
func Worked(employeeID string, date time.Time, in, out *attendance.TimeOfDay) attendance.Attendance {
	a := attendance.Attendance{
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusPresent,
		ClockIn:    in,
		ClockOut:   out,
	}
	a.Recalculate(employee.DefaultStandardDailyHours)
	return a
}

func Absent(employeeID string, date time.Time) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:    employeeID,
		Date:          date,
		Status:        attendance.StatusAbsent,
		OvertimeHours: decimal.Zero,
	}
}

// MemoryCache is an in-process payroll.ReportCache.
type MemoryCache struct {
	mu      sync.Mutex
	reports map[string]payroll.PeriodReportResponse

	Hits          int
	Sets          int
	Invalidations int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{reports: make(map[string]payroll.PeriodReportResponse)}
}

func (c *MemoryCache) Get(ctx context.Context, period payroll.Period) (payroll.PeriodReportResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	report, ok := c.reports[period.String()]
	if ok {
		c.Hits++
	}
	return report, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, period payroll.Period, report payroll.PeriodReportResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	c.reports[period.String()] = report
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, period payroll.Period) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations++
	delete(c.reports, period.String())
	return nil
}
