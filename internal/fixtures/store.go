package fixtures

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/google/uuid"
)

// Store is an in-memory backing for every repository. WithinTx restores the
// previous state when fn fails, so services can be tested for atomicity
// without a database.
type Store struct {
	mu  sync.Mutex
	seq int

	employees    map[string]employee.Employee
	attendances  map[string]attendance.Attendance // employeeID|date
	transactions map[string]transaction.Transaction
	advances     map[string]installment.Advance
	snapshots    map[string]payroll.Snapshot // employeeID|period

	TxCount       int
	LockedPeriods []payroll.Period

	// FailUpsertAfter makes the n-th snapshot upsert fail when positive.
	FailUpsertAfter int
	upserts         int
}

func NewStore() *Store {
	return &Store{
		employees:    make(map[string]employee.Employee),
		attendances:  make(map[string]attendance.Attendance),
		transactions: make(map[string]transaction.Transaction),
		advances:     make(map[string]installment.Advance),
		snapshots:    make(map[string]payroll.Snapshot),
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(time.DateOnly)
}

func periodKey(employeeID string, period time.Time) string {
	return employeeID + "|" + period.Format("2006-01")
}

func inMonth(t time.Time, year, month int) bool {
	return t.Year() == year && int(t.Month()) == month
}

// WithinTx implements database.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	s.mu.Lock()
	s.TxCount++
	saved := struct {
		employees    map[string]employee.Employee
		attendances  map[string]attendance.Attendance
		transactions map[string]transaction.Transaction
		advances     map[string]installment.Advance
		snapshots    map[string]payroll.Snapshot
	}{maps.Clone(s.employees), maps.Clone(s.attendances), maps.Clone(s.transactions), maps.Clone(s.advances), maps.Clone(s.snapshots)}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.employees = saved.employees
		s.attendances = saved.attendances
		s.transactions = saved.transactions
		s.advances = saved.advances
		s.snapshots = saved.snapshots
		s.mu.Unlock()
		return err
	}
	return nil
}

// Seeding helpers. IDs are assigned when empty.

func (s *Store) AddEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = s.nextID("emp")
	}
	s.employees[e.ID] = e
	return e
}

func (s *Store) AddAttendance(a attendance.Attendance) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = s.nextID("att")
	}
	s.attendances[dayKey(a.EmployeeID, a.Date)] = a
	return a
}

func (s *Store) AddTransaction(t transaction.Transaction) transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = s.nextID("trx")
	}
	s.transactions[t.ID] = t
	return t
}

func (s *Store) AddAdvance(a installment.Advance) installment.Advance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = s.nextID("adv")
	}
	s.advances[a.ID] = a
	return a
}

func (s *Store) AddSnapshot(snap payroll.Snapshot) payroll.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.ID == "" {
		snap.ID = s.nextID("snap")
	}
	s.snapshots[periodKey(snap.EmployeeID, snap.Period)] = snap
	return snap
}

func (s *Store) SnapshotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func (s *Store) Snapshot(employeeID string, period payroll.Period) (payroll.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[periodKey(employeeID, period.FirstDay())]
	return snap, ok
}

func (s *Store) HasTransaction(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.transactions[id]
	return ok
}

func (s *Store) employeeName(id string) *string {
	e, ok := s.employees[id]
	if !ok {
		return nil
	}
	name := e.FullName()
	return &name
}

// Repository views.

func (s *Store) Employees() employee.EmployeeRepository { return employeeRepo{s} }
func (s *Store) Attendances() attendance.AttendanceRepository { return attendanceRepo{s} }
func (s *Store) Transactions() transaction.TransactionRepository { return transactionRepo{s} }
func (s *Store) Installments() installment.InstallmentRepository { return installmentRepo{s} }
func (s *Store) Snapshots() payroll.SnapshotRepository { return snapshotRepo{s} }

type employeeRepo struct{ s *Store }

func (r employeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.employees {
		if existing.NationalID == e.NationalID {
			return employee.Employee{}, employee.ErrNationalIDExists
		}
	}
	if e.ID == "" {
		e.ID = r.s.nextID("emp")
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.employees[e.ID] = e
	return e, nil
}

func (r employeeRepo) ExistsByNationalID(ctx context.Context, nationalID string, excludeID *string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if e.NationalID != nationalID {
			continue
		}
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r employeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[e.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.UpdatedAt = time.Now()
	r.s.employees[e.ID] = e
	return e, nil
}

func (r employeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b employee.Employee) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	return out, nil
}

type attendanceRepo struct{ s *Store }

func (r attendanceRepo) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := dayKey(a.EmployeeID, a.Date)
	if existing, ok := r.s.attendances[key]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		if a.ManualOvertimeHours == nil {
			a.ManualOvertimeHours = existing.ManualOvertimeHours
		}
	} else if a.ID == "" {
		a.ID = r.s.nextID("att")
	}
	a.UpdatedAt = time.Now()
	r.s.attendances[key] = a
	return a, nil
}

func (r attendanceRepo) filter(keep func(attendance.Attendance) bool) []attendance.Attendance {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if keep(a) {
			a.EmployeeName = r.s.employeeName(a.EmployeeID)
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b attendance.Attendance) int {
		if c := strings.Compare(a.EmployeeID, b.EmployeeID); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	return out
}

func (r attendanceRepo) ListByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]attendance.Attendance, error) {
	return r.filter(func(a attendance.Attendance) bool {
		return a.EmployeeID == employeeID && inMonth(a.Date, year, month)
	}), nil
}

func (r attendanceRepo) ListByPeriod(ctx context.Context, year, month int) ([]attendance.Attendance, error) {
	return r.filter(func(a attendance.Attendance) bool {
		return inMonth(a.Date, year, month)
	}), nil
}

func (r attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	day := date.Format(time.DateOnly)
	return r.filter(func(a attendance.Attendance) bool {
		return a.Date.Format(time.DateOnly) == day
	}), nil
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = r.s.nextID("trx")
	}
	t.CreatedAt = time.Now()
	r.s.transactions[t.ID] = t
	return t, nil
}

func (r transactionRepo) GetByID(ctx context.Context, id string) (transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return transaction.Transaction{}, transaction.ErrTransactionNotFound
	}
	return t, nil
}

func (r transactionRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[id]; !ok {
		return transaction.ErrTransactionNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

func (r transactionRepo) filter(keep func(transaction.Transaction) bool) []transaction.Transaction {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []transaction.Transaction
	for _, t := range r.s.transactions {
		if keep(t) {
			t.EmployeeName = r.s.employeeName(t.EmployeeID)
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b transaction.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (r transactionRepo) ListByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]transaction.Transaction, error) {
	return r.filter(func(t transaction.Transaction) bool {
		return t.EmployeeID == employeeID && inMonth(t.Date, year, month)
	}), nil
}

func (r transactionRepo) ListByPeriod(ctx context.Context, year, month int) ([]transaction.Transaction, error) {
	return r.filter(func(t transaction.Transaction) bool {
		return inMonth(t.Date, year, month)
	}), nil
}

type installmentRepo struct{ s *Store }

func (r installmentRepo) Create(ctx context.Context, a installment.Advance) (installment.Advance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == "" {
		a.ID = r.s.nextID("adv")
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.advances[a.ID] = a
	return a, nil
}

func (r installmentRepo) GetByID(ctx context.Context, id string) (installment.Advance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.advances[id]
	if !ok {
		return installment.Advance{}, installment.ErrInstallmentNotFound
	}
	return a, nil
}

func (r installmentRepo) MarkCompleted(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.advances[id]
	if !ok {
		return installment.ErrInstallmentNotFound
	}
	a.Completed = true
	a.UpdatedAt = time.Now()
	r.s.advances[id] = a
	return nil
}

func (r installmentRepo) filter(keep func(installment.Advance) bool) []installment.Advance {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []installment.Advance
	for _, a := range r.s.advances {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b installment.Advance) int {
		if c := b.IssueDate.Compare(a.IssueDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (r installmentRepo) ListByEmployee(ctx context.Context, employeeID string) ([]installment.Advance, error) {
	return r.filter(func(a installment.Advance) bool { return a.EmployeeID == employeeID }), nil
}

func (r installmentRepo) ListOpenByEmployee(ctx context.Context, employeeID string) ([]installment.Advance, error) {
	return r.filter(func(a installment.Advance) bool { return a.EmployeeID == employeeID && !a.Completed }), nil
}

func (r installmentRepo) ListOpen(ctx context.Context) ([]installment.Advance, error) {
	return r.filter(func(a installment.Advance) bool { return !a.Completed }), nil
}

type snapshotRepo struct{ s *Store }

func (r snapshotRepo) LockPeriod(ctx context.Context, period payroll.Period) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.LockedPeriods = append(r.s.LockedPeriods, period)
	return nil
}

func (r snapshotRepo) ExistsForPeriod(ctx context.Context, period payroll.Period) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, snap := range r.s.snapshots {
		if payroll.PeriodOf(snap.Period) == period {
			return true, nil
		}
	}
	return false, nil
}

func (r snapshotRepo) ExistsForEmployee(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.snapshots[periodKey(employeeID, period.FirstDay())]
	return ok, nil
}

func (r snapshotRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period) (payroll.Snapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap, ok := r.s.snapshots[periodKey(employeeID, period.FirstDay())]
	if !ok {
		return payroll.Snapshot{}, payroll.ErrSnapshotNotFound
	}
	snap.EmployeeName = r.s.employeeName(employeeID)
	return snap, nil
}

func (r snapshotRepo) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Snapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []payroll.Snapshot
	for _, snap := range r.s.snapshots {
		if payroll.PeriodOf(snap.Period) == period {
			snap.EmployeeName = r.s.employeeName(snap.EmployeeID)
			out = append(out, snap)
		}
	}
	slices.SortFunc(out, func(a, b payroll.Snapshot) int {
		return strings.Compare(deref(a.EmployeeName), deref(b.EmployeeName))
	})
	return out, nil
}

func (r snapshotRepo) Upsert(ctx context.Context, snap payroll.Snapshot) (payroll.Snapshot, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.upserts++
	if r.s.FailUpsertAfter > 0 && r.s.upserts >= r.s.FailUpsertAfter {
		return payroll.Snapshot{}, false, fmt.Errorf("failed to upsert payroll snapshot: injected failure")
	}

	// payroll_snapshots.id is a UUID column; reject what PostgreSQL would.
	if _, err := uuid.Parse(snap.ID); err != nil {
		return payroll.Snapshot{}, false, fmt.Errorf("failed to upsert payroll snapshot: invalid id %q: %w", snap.ID, err)
	}

	key := periodKey(snap.EmployeeID, snap.Period)
	now := time.Now()
	existing, found := r.s.snapshots[key]
	if found {
		snap.ID = existing.ID
		snap.CreatedAt = existing.CreatedAt
	} else {
		snap.CreatedAt = now
	}
	snap.UpdatedAt = now
	r.s.snapshots[key] = snap
	return snap, !found, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
