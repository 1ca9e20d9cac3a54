package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	GetPeriodReport(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	SealPeriod(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		now:            time.Now,
	}
}

// GetPeriodReport handles GET /payroll/reports?year=&month=
func (h *payrollHandlerImpl) GetPeriodReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ComputePeriodReport(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPayslip handles GET /payroll/employees/{id}?year=&month=
func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ComputeEmployeeReport(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SealPeriod handles POST /payroll/seal. Authority comes from the token.
func (h *payrollHandlerImpl) SealPeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.SealPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	canSeal := middleware.PrincipalFromContext(r.Context()).CanSeal()

	result, err := h.payrollService.SealPeriod(r.Context(), req, canSeal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period sealed", result)
}
