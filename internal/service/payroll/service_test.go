package payroll

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/fixtures"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func newService(store *fixtures.Store, cache payroll.ReportCache) payroll.PayrollService {
	return NewPayrollService(
		store,
		store.Employees(),
		store.Attendances(),
		store.Transactions(),
		store.Installments(),
		store.Snapshots(),
		cache,
	)
}

// seedMarch creates Alice (3000/month, 2 absences, one 9h30 day) and Bob
// (daily 120, 2 worked days).
func seedMarch(store *fixtures.Store) (alice, bob employee.Employee) {
	alice = store.AddEmployee(fixtures.MonthlyEmployee("Alice", "Smith", "3000"))
	bob = store.AddEmployee(fixtures.DailyEmployee("Bob", "Jones", "120"))

	store.AddAttendance(fixtures.Absent(alice.ID, fixtures.Day(2025, 3, 3)))
	store.AddAttendance(fixtures.Absent(alice.ID, fixtures.Day(2025, 3, 4)))
	store.AddAttendance(fixtures.Worked(alice.ID, fixtures.Day(2025, 3, 5), fixtures.Clock(9, 0), fixtures.Clock(18, 30)))

	store.AddAttendance(fixtures.Worked(bob.ID, fixtures.Day(2025, 3, 3), fixtures.Clock(8, 0), fixtures.Clock(16, 0)))
	store.AddAttendance(fixtures.Worked(bob.ID, fixtures.Day(2025, 3, 4), fixtures.Clock(8, 0), fixtures.Clock(16, 0)))
	return alice, bob
}

func findResult(t *testing.T, report payroll.PeriodReportResponse, employeeID string) payroll.PayrollResultResponse {
	t.Helper()
	for _, r := range report.Results {
		if r.EmployeeID == employeeID {
			return r
		}
	}
	t.Fatalf("no result for employee %s", employeeID)
	return payroll.PayrollResultResponse{}
}

func TestComputePeriodReport_Live(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, bob := seedMarch(store)
	svc := newService(store, nil)

	report, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)

	assert.False(t, report.IsFinalized)
	assert.Equal(t, "2025-03", report.Period)
	require.Len(t, report.Results, 2)

	a := findResult(t, report, alice.ID)
	assert.Equal(t, string(payroll.StatusDraft), a.Status)
	assert.Equal(t, 1, a.DaysWorked)
	assert.Equal(t, 2, a.DaysAbsent)
	assertDec(t, "2800", a.BaseEarned)
	assertDec(t, "1.5", a.OvertimeHours)
	assertDec(t, "375", a.OvertimePay)
	assertDec(t, "3175", a.NetPayable)

	b := findResult(t, report, bob.ID)
	assertDec(t, "240", b.BaseEarned)
	assertDec(t, "240", b.NetPayable)

	assertDec(t, "3415", report.GrandTotal)
}

type ctxAwareEmployees struct {
	employee.EmployeeRepository
}

func (r ctxAwareEmployees) ListActive(ctx context.Context) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.EmployeeRepository.ListActive(ctx)
}

func TestComputePeriodReport_LiveIgnoresCallerCancellation(t *testing.T) {
	store := fixtures.NewStore()
	seedMarch(store)
	svc := NewPayrollService(store, ctxAwareEmployees{store.Employees()}, store.Attendances(), store.Transactions(), store.Installments(), store.Snapshots(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.False(t, report.IsFinalized)
	assert.Len(t, report.Results, 2)
}

func TestComputePeriodReport_InvalidPeriod(t *testing.T) {
	svc := newService(fixtures.NewStore(), nil)

	_, err := svc.ComputePeriodReport(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestComputePeriodReport_DeductionsAndInstallments(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	emp := store.AddEmployee(fixtures.MonthlyEmployee("Carol", "White", "2000"))

	store.AddTransaction(transaction.Transaction{EmployeeID: emp.ID, Date: fixtures.Day(2025, 3, 10), Kind: transaction.KindBonus, Amount: fixtures.Dec("150")})
	store.AddTransaction(transaction.Transaction{EmployeeID: emp.ID, Date: fixtures.Day(2025, 3, 11), Kind: transaction.KindPurchase, Amount: fixtures.Dec("49.50")})
	// outside the period
	store.AddTransaction(transaction.Transaction{EmployeeID: emp.ID, Date: fixtures.Day(2025, 4, 1), Kind: transaction.KindCashShortfall, Amount: fixtures.Dec("999")})

	store.AddAdvance(installment.Advance{EmployeeID: emp.ID, IssueDate: fixtures.Day(2024, 12, 1), TotalAmount: fixtures.Dec("600"), InstallmentCount: 6, MonthlyDeduction: fixtures.Dec("100")})
	store.AddAdvance(installment.Advance{EmployeeID: emp.ID, IssueDate: fixtures.Day(2024, 6, 1), TotalAmount: fixtures.Dec("300"), InstallmentCount: 3, MonthlyDeduction: fixtures.Dec("100"), Completed: true})

	report, err := newService(store, nil).ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	r := report.Results[0]
	assertDec(t, "150", r.TotalBonuses)
	assertDec(t, "149.5", r.TotalDeductions)
	assertDec(t, "2000.5", r.NetPayable)
}

func TestComputePeriodReport_InactiveEmployeesExcludedFromLive(t *testing.T) {
	store := fixtures.NewStore()
	inactive := fixtures.MonthlyEmployee("Dan", "Brown", "1000")
	inactive.IsActive = false
	store.AddEmployee(inactive)
	store.AddEmployee(fixtures.MonthlyEmployee("Eve", "Black", "1000"))

	report, err := newService(store, nil).ComputePeriodReport(context.Background(), 2025, 3)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Eve Black", report.Results[0].EmployeeName)
}

func TestSealPeriod_NotAuthorized(t *testing.T) {
	store := fixtures.NewStore()
	seedMarch(store)
	svc := newService(store, nil)

	_, err := svc.SealPeriod(context.Background(), payroll.SealPeriodRequest{Year: 2025, Month: 3}, false)
	assert.ErrorIs(t, err, payroll.ErrSealNotAuthorized)
	assert.Zero(t, store.SnapshotCount())
	assert.Zero(t, store.TxCount)
}

func TestSealPeriod_InvalidPeriod(t *testing.T) {
	svc := newService(fixtures.NewStore(), nil)

	_, err := svc.SealPeriod(context.Background(), payroll.SealPeriodRequest{Year: 2025, Month: 0}, true)
	require.Error(t, err)
}

func TestSealPeriod_FreezesReport(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, _ := seedMarch(store)
	svc := newService(store, nil)

	summary, err := svc.SealPeriod(ctx, payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.NoError(t, err)
	assert.Equal(t, payroll.SealSummary{Period: "2025-03", Created: 2, Updated: 0}, summary)
	assert.Equal(t, []payroll.Period{{Year: 2025, Month: 3}}, store.LockedPeriods)

	before, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.True(t, before.IsFinalized)

	// a further absence after sealing must not show up
	store.AddAttendance(fixtures.Absent(alice.ID, fixtures.Day(2025, 3, 6)))

	after, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	a := findResult(t, after, alice.ID)
	assert.Equal(t, string(payroll.StatusFinalized), a.Status)
	assert.Equal(t, 2, a.DaysAbsent)
	assertDec(t, "2800", a.BaseEarned)

	// re-sealing picks the change up
	summary, err = svc.SealPeriod(ctx, payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 2, summary.Updated)

	resealed, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	a = findResult(t, resealed, alice.ID)
	assert.Equal(t, 3, a.DaysAbsent)
	assertDec(t, "2700", a.BaseEarned)
}

func TestSealPeriod_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, bob := seedMarch(store)
	svc := newService(store, nil)
	req := payroll.SealPeriodRequest{Year: 2025, Month: 3}
	period := payroll.Period{Year: 2025, Month: 3}

	_, err := svc.SealPeriod(ctx, req, true)
	require.NoError(t, err)
	firstAlice, _ := store.Snapshot(alice.ID, period)
	firstBob, _ := store.Snapshot(bob.ID, period)

	summary, err := svc.SealPeriod(ctx, req, true)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 2, store.SnapshotCount())

	secondAlice, _ := store.Snapshot(alice.ID, period)
	secondBob, _ := store.Snapshot(bob.ID, period)
	for _, pair := range [][2]payroll.Snapshot{{firstAlice, secondAlice}, {firstBob, secondBob}} {
		first, second := pair[0], pair[1]
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.NetPayable.Equal(second.NetPayable))
		assert.True(t, first.TotalDeductions.Equal(second.TotalDeductions))
		assert.True(t, first.OvertimePay.Equal(second.OvertimePay))
		assert.Equal(t, first.DaysWorked, second.DaysWorked)
		assert.Equal(t, first.DaysAbsent, second.DaysAbsent)
	}
}

type recordingSnapshots struct {
	payroll.SnapshotRepository
	ids []string
}

func (r *recordingSnapshots) Upsert(ctx context.Context, snap payroll.Snapshot) (payroll.Snapshot, bool, error) {
	r.ids = append(r.ids, snap.ID)
	return r.SnapshotRepository.Upsert(ctx, snap)
}

func TestSealPeriod_AssignsSnapshotIDs(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, bob := seedMarch(store)
	snapshots := &recordingSnapshots{SnapshotRepository: store.Snapshots()}
	svc := NewPayrollService(store, store.Employees(), store.Attendances(), store.Transactions(), store.Installments(), snapshots, nil)

	_, err := svc.SealPeriod(ctx, payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.NoError(t, err)

	require.Len(t, snapshots.ids, 2)
	for _, id := range snapshots.ids {
		parsed, err := uuid.Parse(id)
		require.NoError(t, err, "snapshot id %q", id)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	}

	period := payroll.Period{Year: 2025, Month: 3}
	for _, empID := range []string{alice.ID, bob.ID} {
		snap, ok := store.Snapshot(empID, period)
		require.True(t, ok)
		assert.Contains(t, snapshots.ids, snap.ID)
	}
}

func TestSnapshotUpsert_RejectsMissingID(t *testing.T) {
	store := fixtures.NewStore()
	alice, _ := seedMarch(store)

	_, _, err := store.Snapshots().Upsert(context.Background(), payroll.Snapshot{
		EmployeeID: alice.ID,
		Period:     fixtures.Day(2025, 3, 1),
	})
	require.Error(t, err)
	assert.Zero(t, store.SnapshotCount())
}

func TestSealPeriod_RollsBackOnFailure(t *testing.T) {
	store := fixtures.NewStore()
	seedMarch(store)
	store.AddEmployee(fixtures.MonthlyEmployee("Zed", "Zulu", "1000"))
	store.FailUpsertAfter = 2
	svc := newService(store, nil)

	_, err := svc.SealPeriod(context.Background(), payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.Error(t, err)
	assert.Zero(t, store.SnapshotCount())
}

func TestComputePeriodReport_PartialSealIsFinalized(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, _ := seedMarch(store)
	store.AddEmployee(fixtures.MonthlyEmployee("Frank", "Green", "1800"))

	// only Alice is frozen, as if the others were hired after the seal
	live, err := newService(store, nil).ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	aliceLive := findResult(t, live, alice.ID)
	store.AddSnapshot(payroll.Snapshot{
		EmployeeID:      alice.ID,
		Period:          fixtures.Day(2025, 3, 1),
		BaseAmount:      aliceLive.BaseAmount,
		DaysWorked:      aliceLive.DaysWorked,
		DaysAbsent:      aliceLive.DaysAbsent,
		OvertimeHours:   aliceLive.OvertimeHours,
		OvertimePay:     aliceLive.OvertimePay,
		TotalBonuses:    aliceLive.TotalBonuses,
		TotalDeductions: aliceLive.TotalDeductions,
		NetPayable:      aliceLive.NetPayable,
	})

	report, err := newService(store, nil).ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.True(t, report.IsFinalized)
	require.Len(t, report.Results, 1)
	assert.Equal(t, alice.ID, report.Results[0].EmployeeID)
	assert.Equal(t, "Alice Smith", report.Results[0].EmployeeName)
	assertDec(t, "2800", report.Results[0].BaseEarned)
	assertDec(t, "3175", report.GrandTotal)
}

func TestComputePeriodReport_CachesFinalizedOnly(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	seedMarch(store)
	cache := fixtures.NewMemoryCache()
	svc := newService(store, cache)

	_, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Zero(t, cache.Sets, "live reports are not cached")

	_, err = svc.SealPeriod(ctx, payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Invalidations)

	first, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Sets)
	assert.Zero(t, cache.Hits)

	second, err := svc.ComputePeriodReport(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits)
	assert.Equal(t, first, second)
}

func TestWarmReportCache(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	seedMarch(store)
	cache := fixtures.NewMemoryCache()
	svc := newService(store, cache)
	period := payroll.Period{Year: 2025, Month: 3}

	require.NoError(t, svc.WarmReportCache(ctx, period))
	assert.Zero(t, cache.Sets, "nothing to warm before the seal")

	_, err := svc.SealPeriod(ctx, payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.NoError(t, err)

	require.NoError(t, svc.WarmReportCache(ctx, period))
	assert.Equal(t, 1, cache.Sets)

	report, ok, err := cache.Get(ctx, period)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, report.IsFinalized)
	assert.Len(t, report.Results, 2)
}

func TestWarmReportCache_NoCache(t *testing.T) {
	svc := newService(fixtures.NewStore(), nil)
	assert.NoError(t, svc.WarmReportCache(context.Background(), payroll.Period{Year: 2025, Month: 3}))
}

func TestComputeEmployeeReport_Live(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, _ := seedMarch(store)
	store.AddTransaction(transaction.Transaction{EmployeeID: alice.ID, Date: fixtures.Day(2025, 3, 12), Kind: transaction.KindBonus, Amount: fixtures.Dec("200")})
	store.AddTransaction(transaction.Transaction{EmployeeID: alice.ID, Date: fixtures.Day(2025, 3, 13), Kind: transaction.KindSimpleAdvance, Amount: fixtures.Dec("300")})
	store.AddAdvance(installment.Advance{EmployeeID: alice.ID, IssueDate: fixtures.Day(2025, 1, 5), TotalAmount: fixtures.Dec("1000"), InstallmentCount: 4, MonthlyDeduction: fixtures.Dec("250")})

	slip, err := newService(store, nil).ComputeEmployeeReport(ctx, alice.ID, 2025, 3)
	require.NoError(t, err)

	assert.Equal(t, "2025-03", slip.Period)
	assert.Equal(t, string(payroll.StatusDraft), slip.Result.Status)
	require.Len(t, slip.Bonuses, 1)
	require.Len(t, slip.Deductions, 1)
	require.Len(t, slip.OpenInstallments, 1)
	require.NotNil(t, slip.InstallmentDeduction)
	assertDec(t, "250", *slip.InstallmentDeduction)
	assertDec(t, "550", slip.Result.TotalDeductions)
	// 2800 + 375 + 200 - 550
	assertDec(t, "2825", slip.Result.NetPayable)
}

func TestComputeEmployeeReport_Sealed(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	alice, _ := seedMarch(store)
	svc := newService(store, nil)

	_, err := svc.SealPeriod(ctx, payroll.SealPeriodRequest{Year: 2025, Month: 3}, true)
	require.NoError(t, err)
	store.AddAttendance(attendance.Attendance{EmployeeID: alice.ID, Date: fixtures.Day(2025, 3, 20), Status: attendance.StatusUnpaidLeave})

	slip, err := svc.ComputeEmployeeReport(ctx, alice.ID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusFinalized), slip.Result.Status)
	assert.Equal(t, "Alice Smith", slip.Result.EmployeeName)
	assert.Equal(t, 2, slip.Result.DaysAbsent)
	assertDec(t, "2800", slip.Result.BaseEarned)
	assert.Nil(t, slip.InstallmentDeduction)
}

func TestComputeEmployeeReport_UnknownEmployee(t *testing.T) {
	_, err := newService(fixtures.NewStore(), nil).ComputeEmployeeReport(context.Background(), "missing", 2025, 3)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
