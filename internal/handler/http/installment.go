package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/installment"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InstallmentHandler interface {
	CreateInstallment(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	MarkCompleted(w http.ResponseWriter, r *http.Request)
}

type installmentHandlerImpl struct {
	installmentService installment.InstallmentService
}

func NewInstallmentHandler(installmentService installment.InstallmentService) InstallmentHandler {
	return &installmentHandlerImpl{installmentService: installmentService}
}

// CreateInstallment handles POST /installments
func (h *installmentHandlerImpl) CreateInstallment(w http.ResponseWriter, r *http.Request) {
	var req installment.CreateInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.installmentService.CreateInstallment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Installment advance created", result)
}

// ListByEmployee handles GET /employees/{id}/installments
func (h *installmentHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.installmentService.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

// MarkCompleted handles POST /installments/{id}/complete
func (h *installmentHandlerImpl) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	result, err := h.installmentService.MarkCompleted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Installment advance completed", result)
}
