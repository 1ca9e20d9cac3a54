package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/redis/go-redis/v9"
)

const reportKeyPrefix = "payroll:report:"

// ReportKey is the cache key of a period report.
func ReportKey(period payroll.Period) string {
	return reportKeyPrefix + period.String()
}

type reportCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewReportCache(rdb redis.Cmdable, ttl time.Duration) payroll.ReportCache {
	return &reportCache{rdb: rdb, ttl: ttl}
}

func (c *reportCache) Get(ctx context.Context, period payroll.Period) (payroll.PeriodReportResponse, bool, error) {
	raw, err := c.rdb.Get(ctx, ReportKey(period)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return payroll.PeriodReportResponse{}, false, nil
		}
		return payroll.PeriodReportResponse{}, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report payroll.PeriodReportResponse
	if err := json.Unmarshal(raw, &report); err != nil {
		return payroll.PeriodReportResponse{}, false, fmt.Errorf("failed to decode cached report: %w", err)
	}

	return report, true, nil
}

func (c *reportCache) Set(ctx context.Context, period payroll.Period, report payroll.PeriodReportResponse) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := c.rdb.Set(ctx, ReportKey(period), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

func (c *reportCache) Invalidate(ctx context.Context, period payroll.Period) error {
	if err := c.rdb.Del(ctx, ReportKey(period)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}
