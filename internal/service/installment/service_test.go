package installment

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(store *fixtures.Store) *InstallmentServiceImpl {
	svc := NewInstallmentService(store.Installments(), store.Employees()).(*InstallmentServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 18, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateInstallment_DerivesMonthlyDeduction(t *testing.T) {
	store := fixtures.NewStore()
	emp := store.AddEmployee(fixtures.MonthlyEmployee("Alice", "Smith", "3000"))

	resp, err := newService(store).CreateInstallment(context.Background(), installment.CreateInstallmentRequest{
		EmployeeID:       emp.ID,
		TotalAmount:      fixtures.Dec("1000"),
		InstallmentCount: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-18", resp.IssueDate)
	assert.True(t, resp.MonthlyDeduction.Equal(fixtures.Dec("333.33")))
	assert.False(t, resp.Completed)
}

func TestCreateInstallment_ExplicitMonthlyDeduction(t *testing.T) {
	store := fixtures.NewStore()
	emp := store.AddEmployee(fixtures.MonthlyEmployee("Alice", "Smith", "3000"))
	monthly := fixtures.Dec("400")

	resp, err := newService(store).CreateInstallment(context.Background(), installment.CreateInstallmentRequest{
		EmployeeID:       emp.ID,
		IssueDate:        "2025-01-10",
		TotalAmount:      fixtures.Dec("1000"),
		InstallmentCount: 3,
		MonthlyDeduction: &monthly,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", resp.IssueDate)
	assert.True(t, resp.MonthlyDeduction.Equal(monthly))
}

func TestCreateInstallment_UnknownEmployee(t *testing.T) {
	_, err := newService(fixtures.NewStore()).CreateInstallment(context.Background(), installment.CreateInstallmentRequest{
		EmployeeID:       "missing",
		TotalAmount:      fixtures.Dec("100"),
		InstallmentCount: 1,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestMarkCompleted(t *testing.T) {
	store := fixtures.NewStore()
	emp := store.AddEmployee(fixtures.MonthlyEmployee("Alice", "Smith", "3000"))
	adv := store.AddAdvance(installment.Advance{EmployeeID: emp.ID, IssueDate: fixtures.Day(2025, 1, 1), TotalAmount: fixtures.Dec("300"), InstallmentCount: 3, MonthlyDeduction: fixtures.Dec("100")})
	svc := newService(store)

	resp, err := svc.MarkCompleted(context.Background(), adv.ID)
	require.NoError(t, err)
	assert.True(t, resp.Completed)

	open, err := store.Installments().ListOpenByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.MarkCompleted(context.Background(), adv.ID)
	assert.ErrorIs(t, err, installment.ErrInstallmentAlreadyCompleted)
}

func TestMarkCompleted_NotFound(t *testing.T) {
	_, err := newService(fixtures.NewStore()).MarkCompleted(context.Background(), "missing")
	assert.ErrorIs(t, err, installment.ErrInstallmentNotFound)
}

func TestListByEmployee(t *testing.T) {
	store := fixtures.NewStore()
	emp := store.AddEmployee(fixtures.MonthlyEmployee("Alice", "Smith", "3000"))
	store.AddAdvance(installment.Advance{EmployeeID: emp.ID, IssueDate: fixtures.Day(2024, 5, 1), TotalAmount: fixtures.Dec("100"), InstallmentCount: 1, MonthlyDeduction: fixtures.Dec("100"), Completed: true})
	store.AddAdvance(installment.Advance{EmployeeID: emp.ID, IssueDate: fixtures.Day(2025, 2, 1), TotalAmount: fixtures.Dec("200"), InstallmentCount: 2, MonthlyDeduction: fixtures.Dec("100")})

	list, err := newService(store).ListByEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-02-01", list[0].IssueDate, "newest first")
}
