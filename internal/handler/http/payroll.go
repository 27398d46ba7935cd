package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	MySalary(w http.ResponseWriter, r *http.Request)
	UserSalary(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func selectorFrom(r *http.Request) (payroll.Selector, error) {
	q := r.URL.Query()
	return payroll.ParseSelector(q.Get("cycle"), q.Get("month"), q.Get("year"))
}

// MySalary implements PayrollHandler.
func (h *payrollHandlerImpl) MySalary(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	sel, err := selectorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.payrollService.MySalary(r.Context(), actor, sel)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UserSalary implements PayrollHandler.
func (h *payrollHandlerImpl) UserSalary(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	sel, err := selectorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.payrollService.UserSalary(r.Context(), actor, chi.URLParam(r, "userID"), sel)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Report implements PayrollHandler.
func (h *payrollHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	sel, err := selectorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, filename, err := h.payrollService.Report(r.Context(), actor, sel)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, xlsxContentType, filename, data)
}

// GetSettings implements PayrollHandler.
func (h *payrollHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.payrollService.GetSettings(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateSettings implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req payroll.UpdateSettingsRequest
	if !decodeJSON(w, r, "UpdatePayrollSettings", &req) {
		return
	}

	resp, err := h.payrollService.UpdateSettings(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll settings updated successfully", resp)
}
