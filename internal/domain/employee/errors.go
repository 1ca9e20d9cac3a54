package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrNationalIDExists        = errors.New("national id already registered")
	ErrInvalidNationalID       = errors.New("national id must be exactly 11 digits")
	ErrInvalidPhoneNumber      = errors.New("phone number must be 10-15 digits")
	ErrInvalidCompensationMode = errors.New("compensation mode must be monthly or daily")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
)
