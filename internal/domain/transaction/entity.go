package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a one-off monetary event on an employee's payroll.
type Transaction struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Kind       Kind
	Amount     decimal.Decimal
	Note       *string
	CreatedAt  time.Time

	// DTO / Join
	EmployeeName *string
}

type Kind string

const (
	KindSimpleAdvance Kind = "simple_advance"
	KindCashShortfall Kind = "cash_shortfall"
	KindPurchase      Kind = "purchase"
	KindBonus         Kind = "bonus"
)

var kindSigns = map[Kind]int64{
	KindSimpleAdvance: -1,
	KindCashShortfall: -1,
	KindPurchase:      -1,
	KindBonus:         1,
}

func (k Kind) IsValid() bool {
	_, ok := kindSigns[k]
	return ok
}

// Sign is +1 for kinds that add to net pay and -1 for deductions.
func (k Kind) Sign() int64 {
	return kindSigns[k]
}

func (k Kind) IsAdditive() bool {
	return k.Sign() > 0
}

// DeductiveKinds lists every kind that reduces net pay.
func DeductiveKinds() []Kind {
	return []Kind{KindSimpleAdvance, KindCashShortfall, KindPurchase}
}

// SignedAmount is the transaction's effect on net pay.
func (t Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(t.Kind.Sign()))
}
