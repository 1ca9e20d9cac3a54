package payroll

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrSnapshotNotFound  = errors.New("payroll snapshot not found")
	ErrSealNotAuthorized = errors.New("sealing a payroll period requires seal authority")
	ErrPeriodClosed      = errors.New("payroll period is closed")
)
