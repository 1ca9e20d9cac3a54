package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	transactionHandler TransactionHandler,
	installmentHandler InstallmentHandler,
	payrollHandler PayrollHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", employeeHandler.ListEmployees)
				r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Post("/", employeeHandler.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", employeeHandler.GetEmployee)
					r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Put("/", employeeHandler.UpdateEmployee)

					r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/attendance", attendanceHandler.GetMonthlyLog)
					r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Put("/attendance", attendanceHandler.BulkRecordMonth)

					r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/installments", installmentHandler.ListByEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
				r.Get("/", attendanceHandler.GetDailyRollCall)
				r.Post("/", attendanceHandler.RecordAttendance)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionLedgerManage))
				r.Post("/transactions", transactionHandler.CreateTransaction)
				r.Delete("/transactions/{id}", transactionHandler.DeleteTransaction)
				r.Post("/installments", installmentHandler.CreateInstallment)
				r.Post("/installments/{id}/complete", installmentHandler.MarkCompleted)
			})

			// Sealing authority is decided by the payroll service.
			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollView))
				r.Get("/reports", payrollHandler.GetPeriodReport)
				r.Get("/employees/{id}", payrollHandler.GetPayslip)
				r.Post("/seal", payrollHandler.SealPeriod)
			})

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/dashboard", dashboardHandler.GetDashboard)
		})
	})
	return r
}
