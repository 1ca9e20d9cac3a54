package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/fixtures"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/payroll-engine/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/payroll-engine/internal/service/employee"
	installmentService "github.com/cmlabs-hris/payroll-engine/internal/service/installment"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	transactionService "github.com/cmlabs-hris/payroll-engine/internal/service/transaction"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type stubDashboardRepo struct{}

func (stubDashboardRepo) CountActiveEmployees(ctx context.Context) (int64, error) { return 3, nil }
func (stubDashboardRepo) CountPresentOn(ctx context.Context, date time.Time) (int64, error) {
	return 2, nil
}
func (stubDashboardRepo) SumDeductionsForMonth(ctx context.Context, year, month int) (decimal.Decimal, error) {
	return decimal.NewFromInt(150), nil
}
func (stubDashboardRepo) ListRecentTransactions(ctx context.Context, limit int) ([]transaction.Transaction, error) {
	return nil, nil
}

var _ dashboard.DashboardRepository = stubDashboardRepo{}

type testEnv struct {
	router *chi.Mux
	store  *fixtures.Store
	jwt    jwt.Service
	alice  string
	bonus  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := fixtures.NewStore()
	alice := store.AddEmployee(fixtures.MonthlyEmployee("Alice", "Smith", "3000"))
	store.AddAttendance(fixtures.Worked(alice.ID, fixtures.Day(2024, 3, 4), fixtures.Clock(9, 0), fixtures.Clock(18, 30)))
	bonus := store.AddTransaction(transaction.Transaction{
		EmployeeID: alice.ID,
		Date:       fixtures.Day(2024, 3, 10),
		Kind:       transaction.KindBonus,
		Amount:     fixtures.Dec("100"),
	})

	employees, attendances := store.Employees(), store.Attendances()
	transactions, installments, snapshots := store.Transactions(), store.Installments(), store.Snapshots()

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	router := NewRouter(
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		[]string{"http://localhost:3000"},
		jwtService,
		NewEmployeeHandler(employeeService.NewEmployeeService(employees, transactions, installments)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(store, attendances, employees)),
		NewTransactionHandler(transactionService.NewTransactionService(store, transactions, employees, snapshots)),
		NewInstallmentHandler(installmentService.NewInstallmentService(installments, employees)),
		NewPayrollHandler(payrollService.NewPayrollService(store, employees, attendances, transactions, installments, snapshots, fixtures.NewMemoryCache())),
		NewDashboardHandler(dashboardService.NewDashboardService(stubDashboardRepo{})),
	)

	return &testEnv{router: router, store: store, jwt: jwtService, alice: alice.ID, bonus: bonus.ID}
}

func (e *testEnv) token(t *testing.T, role user.Role, isAdmin bool) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken(user.Principal{UserID: "u-1", Role: role, IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Count int `json:"count"`
	} `json:"meta"`
	Error *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/api/v1/employees", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", "1h")
		token, _, err := other.GenerateAccessToken(user.Principal{UserID: "u-1", Role: user.RoleOwner})
		require.NoError(t, err)

		rec, _ := env.do(t, http.MethodGet, "/api/v1/employees", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/v1/employees", env.token(t, user.RoleEmployee, false), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, body.Success)
		require.NotNil(t, body.Meta)
		assert.Equal(t, 1, body.Meta.Count)
	})
}

func TestRequirePermission(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleEmployee, false)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/employees", token, map[string]any{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/transactions/"+env.bonus, token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, env.store.HasTransaction(env.bonus))
}

func TestCreateEmployee(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleManager, false)

	req := map[string]any{
		"national_id":       "12345678901",
		"first_name":        "Dana",
		"last_name":         "Jones",
		"phone_number":      "5559876543",
		"compensation_mode": "daily",
		"base_amount":       "120",
		"hire_date":         "2024-02-01",
	}

	rec, body := env.do(t, http.MethodPost, "/api/v1/employees", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, body.Success)

	var created struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dana", created.FirstName)

	t.Run("duplicate national id", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/employees", token, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/employees", token, "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		rec, body := env.do(t, http.MethodPost, "/api/v1/employees", token, map[string]any{"first_name": "X"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, body.Error)
		assert.Contains(t, body.Error.Details, "national_id")
	})
}

func TestGetEmployee_PastPeriodRestricted(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/v1/employees/" + env.alice + "?year=2024&month=3"

	rec, _ := env.do(t, http.MethodGet, path, env.token(t, user.RoleManager, false), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodGet, path, env.token(t, user.RoleOwner, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, path, env.token(t, user.RoleManager, true), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/employees/missing", env.token(t, user.RoleOwner, false), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPeriodReport(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleEmployee, false)

	t.Run("invalid month", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/api/v1/payroll/reports?year=2024&month=13", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("non numeric year", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/api/v1/payroll/reports?year=abc&month=3", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("live report", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/v1/payroll/reports?year=2024&month=3", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var report payroll.PeriodReportResponse
		require.NoError(t, json.Unmarshal(body.Data, &report))
		assert.False(t, report.IsFinalized)
		require.Len(t, report.Results, 1)
		assert.Equal(t, env.alice, report.Results[0].EmployeeID)
	})
}

func TestSealPeriod(t *testing.T) {
	env := newTestEnv(t)
	sealReq := map[string]int{"year": 2024, "month": 3}

	t.Run("manager cannot seal", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/payroll/seal", env.token(t, user.RoleManager, false), sealReq)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, env.store.SnapshotCount())
	})

	t.Run("owner seals", func(t *testing.T) {
		rec, body := env.do(t, http.MethodPost, "/api/v1/payroll/seal", env.token(t, user.RoleOwner, false), sealReq)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var summary payroll.SealSummary
		require.NoError(t, json.Unmarshal(body.Data, &summary))
		assert.Equal(t, "2024-03", summary.Period)
		assert.Equal(t, 1, summary.Created)
		assert.Equal(t, 1, env.store.SnapshotCount())
	})

	t.Run("report is finalized", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/v1/payroll/reports?year=2024&month=3", env.token(t, user.RoleEmployee, false), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var report payroll.PeriodReportResponse
		require.NoError(t, json.Unmarshal(body.Data, &report))
		assert.True(t, report.IsFinalized)
	})

	t.Run("deleting a sealed transaction conflicts", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodDelete, "/api/v1/transactions/"+env.bonus, env.token(t, user.RoleOwner, false), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.True(t, env.store.HasTransaction(env.bonus))
	})
}

func TestDeleteTransaction_OpenPeriod(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleManager, false)

	rec, _ := env.do(t, http.MethodDelete, "/api/v1/transactions/"+env.bonus, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.store.HasTransaction(env.bonus))

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/transactions/"+env.bonus, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayslip(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleEmployee, false)

	rec, body := env.do(t, http.MethodGet, "/api/v1/payroll/employees/"+env.alice+"?year=2024&month=3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var slip payroll.PayslipResponse
	require.NoError(t, json.Unmarshal(body.Data, &slip))
	assert.Equal(t, "2024-03", slip.Period)
	assert.Len(t, slip.Bonuses, 1)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/payroll/employees/missing?year=2024&month=3", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleManager, false)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/attendance", token, map[string]any{
		"employee_id": env.alice,
		"date":        "2024-03-05",
		"status":      "present",
		"clock_in":    "09:00",
		"clock_out":   "17:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = env.do(t, http.MethodGet, "/api/v1/attendance?date=2024-03-05", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/attendance?date=05-03-2024", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/employees/"+env.alice+"/attendance?year=2024&month=3", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/attendance?date=2024-03-05", env.token(t, user.RoleEmployee, false), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInstallmentRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleManager, false)

	rec, body := env.do(t, http.MethodPost, "/api/v1/installments", token, map[string]any{
		"employee_id":       env.alice,
		"total_amount":      "900",
		"installment_count": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	rec, body = env.do(t, http.MethodGet, "/api/v1/employees/"+env.alice+"/installments", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 1, body.Meta.Count)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/installments/"+created.ID+"/complete", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/installments/"+created.ID+"/complete", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/dashboard", env.token(t, user.RoleEmployee, false), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dashboard.DashboardResponse
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	assert.Equal(t, int64(3), resp.ActiveEmployees)
	assert.Equal(t, int64(1), resp.NotPresentToday)
}
