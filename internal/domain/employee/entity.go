package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                 string
	NationalID         string
	FirstName          string
	LastName           string
	PhoneNumber        string
	IBAN               *string
	BankName           *string
	CompensationMode   CompensationMode
	BaseAmount         decimal.Decimal // monthly salary or daily wage, see CompensationMode
	OvertimeRate       decimal.Decimal // per hour
	StandardDailyHours int
	HireDate           time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CompensationMode string

const (
	CompensationMonthly CompensationMode = "monthly"
	CompensationDaily   CompensationMode = "daily"
)

func (m CompensationMode) IsValid() bool {
	return m == CompensationMonthly || m == CompensationDaily
}

const (
	DefaultStandardDailyHours = 8
)

// DefaultOvertimeRate is applied when an employee is created without an explicit rate.
var DefaultOvertimeRate = decimal.NewFromInt(250)

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
