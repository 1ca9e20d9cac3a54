package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrPastPeriodRestricted    = errors.New("viewing past periods requires seal authority")
)
