package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeOfDay is a wall clock time with minute precision, in minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

var clockLayouts = []string{"15:04", "15:04:05"}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseClock reads "HH:MM" or "HH:MM:SS". Seconds are dropped. Empty or
// unparseable input returns nil and is treated as "no time recorded".
func ParseClock(s string) *TimeOfDay {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			tod := NewTimeOfDay(t.Hour(), t.Minute())
			return &tod
		}
	}
	return nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Duration since midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Minute
}

// TimeOfDayFromDuration truncates d to whole minutes.
func TimeOfDayFromDuration(d time.Duration) TimeOfDay {
	return TimeOfDay(d / time.Minute)
}

var (
	sixty    = decimal.NewFromInt(60)
	halfHour = decimal.New(5, -1)
	fullHour = decimal.NewFromInt(1)
)

// DeriveOvertime returns the signed overtime hours for one attendance day.
//
// Days that are not worked or lack a clock time yield zero. A clock-out before
// the clock-in rolls over midnight. Rest-day work counts entirely as overtime.
// On a normal day the difference to the standard hours keeps its sign and its
// minute part is stepped to the half hour: up to 15 adds nothing, 16 to 45
// adds 0.5, 46 and above adds 1.
func DeriveOvertime(status Status, clockIn, clockOut *TimeOfDay, standardDailyHours int) decimal.Decimal {
	if !status.IsWorked() || clockIn == nil || clockOut == nil {
		return decimal.Zero
	}

	elapsed := int(*clockOut) - int(*clockIn)
	if elapsed < 0 {
		elapsed += minutesPerDay
	}

	if status == StatusPresentRestDay {
		return decimal.NewFromInt(int64(elapsed)).DivRound(sixty, 2)
	}

	diff := elapsed - standardDailyHours*60
	negative := diff < 0
	if negative {
		diff = -diff
	}

	hours := decimal.NewFromInt(int64(diff / 60)).Add(roundingIncrement(diff % 60))
	if negative {
		return hours.Neg()
	}
	return hours
}

func roundingIncrement(minutes int) decimal.Decimal {
	switch {
	case minutes <= 15:
		return decimal.Zero
	case minutes <= 45:
		return halfHour
	default:
		return fullHour
	}
}
