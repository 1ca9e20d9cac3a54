package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// PayrollJobs keeps the report cache warm for recently closed periods.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewPayrollJobs(payrollService payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("warm_previous_period_report", interval, j.WarmPreviousPeriod)
}

// WarmPreviousPeriod loads last month's report into the cache if it has been sealed.
func (j *PayrollJobs) WarmPreviousPeriod(ctx context.Context) error {
	period := payroll.PeriodOf(j.now()).Previous()

	if err := j.payrollService.WarmReportCache(ctx, period); err != nil {
		return fmt.Errorf("failed to warm report cache for %s: %w", period, err)
	}

	slog.DebugContext(ctx, "Cron: report cache warm checked", "period", period.String())
	return nil
}
