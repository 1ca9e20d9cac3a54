package dashboard

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

type DashboardResponse struct {
	Date                string                            `json:"date"`
	ActiveEmployees     int64                             `json:"active_employees"`
	PresentToday        int64                             `json:"present_today"`
	NotPresentToday     int64                             `json:"not_present_today"`
	MonthDeductionTotal decimal.Decimal                   `json:"month_deduction_total"`
	RecentTransactions  []transaction.TransactionResponse `json:"recent_transactions"`
}
