package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// periodFromQuery reads ?year=&month=, defaulting each to the current month.
func periodFromQuery(r *http.Request, now time.Time) (year, month int, err error) {
	year, month = now.Year(), int(now.Month())
	var errs validator.ValidationErrors

	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a number"})
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a number"})
		}
	}
	if len(errs) == 0 && !validator.IsValidPeriod(year, month) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "invalid year or month"})
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return year, month, nil
}
