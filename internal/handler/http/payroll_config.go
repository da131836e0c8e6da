package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/payrollconfig"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollConfigHandler interface {
	CreatePayGrade(w http.ResponseWriter, r *http.Request)
	ListPayGrades(w http.ResponseWriter, r *http.Request)
	GetPayGrade(w http.ResponseWriter, r *http.Request)
	UpdatePayGrade(w http.ResponseWriter, r *http.Request)
	DeletePayGrade(w http.ResponseWriter, r *http.Request)
	ApprovePayGrade(w http.ResponseWriter, r *http.Request)
	RejectPayGrade(w http.ResponseWriter, r *http.Request)

	CreateAllowance(w http.ResponseWriter, r *http.Request)
	ListAllowances(w http.ResponseWriter, r *http.Request)
	GetAllowance(w http.ResponseWriter, r *http.Request)
	UpdateAllowance(w http.ResponseWriter, r *http.Request)
	DeleteAllowance(w http.ResponseWriter, r *http.Request)
	ApproveAllowance(w http.ResponseWriter, r *http.Request)
	RejectAllowance(w http.ResponseWriter, r *http.Request)

	CreateTaxRule(w http.ResponseWriter, r *http.Request)
	ListTaxRules(w http.ResponseWriter, r *http.Request)
	GetTaxRule(w http.ResponseWriter, r *http.Request)
	UpdateTaxRule(w http.ResponseWriter, r *http.Request)
	DeleteTaxRule(w http.ResponseWriter, r *http.Request)
	ApproveTaxRule(w http.ResponseWriter, r *http.Request)
	RejectTaxRule(w http.ResponseWriter, r *http.Request)
}

type payrollConfigHandlerImpl struct {
	payrollConfigService payrollconfig.PayrollConfigService
}

func NewPayrollConfigHandler(payrollConfigService payrollconfig.PayrollConfigService) PayrollConfigHandler {
	return &payrollConfigHandlerImpl{payrollConfigService: payrollConfigService}
}

// withID runs fn on the {id} URL parameter. An empty message answers with
// plain data.
func withID[T any](w http.ResponseWriter, r *http.Request, message string, fn func(ctx context.Context, id string) (T, error)) {
	resp, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if message == "" {
		response.Success(w, resp)
		return
	}
	response.SuccessWithMessage(w, message, resp)
}

func deleteByID(w http.ResponseWriter, r *http.Request, message string, fn func(ctx context.Context, id string) error) {
	if err := fn(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, nil)
}

func configFilter(w http.ResponseWriter, r *http.Request) (payrollconfig.ConfigFilter, bool) {
	q := newQuery(r)
	filter := payrollconfig.ConfigFilter{
		Status: q.str("status"),
		Search: q.str("search"),
		Params: q.page(),
	}
	return filter, q.done(w)
}

// ============= Pay grades =============

func (h *payrollConfigHandlerImpl) CreatePayGrade(w http.ResponseWriter, r *http.Request) {
	var req payrollconfig.CreatePayGradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.payrollConfigService.CreatePayGrade(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Pay grade created as draft", resp)
}

func (h *payrollConfigHandlerImpl) ListPayGrades(w http.ResponseWriter, r *http.Request) {
	filter, ok := configFilter(w, r)
	if !ok {
		return
	}

	page, err := h.payrollConfigService.ListPayGrades(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *payrollConfigHandlerImpl) GetPayGrade(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "", h.payrollConfigService.GetPayGrade)
}

func (h *payrollConfigHandlerImpl) UpdatePayGrade(w http.ResponseWriter, r *http.Request) {
	var req payrollconfig.UpdatePayGradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.payrollConfigService.UpdatePayGrade(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Pay grade updated successfully", resp)
}

func (h *payrollConfigHandlerImpl) DeletePayGrade(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Pay grade deleted successfully", h.payrollConfigService.DeletePayGrade)
}

func (h *payrollConfigHandlerImpl) ApprovePayGrade(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "Pay grade approved", h.payrollConfigService.ApprovePayGrade)
}

func (h *payrollConfigHandlerImpl) RejectPayGrade(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "Pay grade rejected", h.payrollConfigService.RejectPayGrade)
}

// ============= Allowances =============

func (h *payrollConfigHandlerImpl) CreateAllowance(w http.ResponseWriter, r *http.Request) {
	var req payrollconfig.CreateAllowanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.payrollConfigService.CreateAllowance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Allowance created as draft", resp)
}

func (h *payrollConfigHandlerImpl) ListAllowances(w http.ResponseWriter, r *http.Request) {
	filter, ok := configFilter(w, r)
	if !ok {
		return
	}

	page, err := h.payrollConfigService.ListAllowances(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *payrollConfigHandlerImpl) GetAllowance(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "", h.payrollConfigService.GetAllowance)
}

func (h *payrollConfigHandlerImpl) UpdateAllowance(w http.ResponseWriter, r *http.Request) {
	var req payrollconfig.UpdateAllowanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.payrollConfigService.UpdateAllowance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Allowance updated successfully", resp)
}

func (h *payrollConfigHandlerImpl) DeleteAllowance(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Allowance deleted successfully", h.payrollConfigService.DeleteAllowance)
}

func (h *payrollConfigHandlerImpl) ApproveAllowance(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "Allowance approved", h.payrollConfigService.ApproveAllowance)
}

func (h *payrollConfigHandlerImpl) RejectAllowance(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "Allowance rejected", h.payrollConfigService.RejectAllowance)
}

// ============= Tax rules =============

func (h *payrollConfigHandlerImpl) CreateTaxRule(w http.ResponseWriter, r *http.Request) {
	var req payrollconfig.CreateTaxRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.payrollConfigService.CreateTaxRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Tax rule created as draft", resp)
}

func (h *payrollConfigHandlerImpl) ListTaxRules(w http.ResponseWriter, r *http.Request) {
	filter, ok := configFilter(w, r)
	if !ok {
		return
	}

	page, err := h.payrollConfigService.ListTaxRules(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *payrollConfigHandlerImpl) GetTaxRule(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "", h.payrollConfigService.GetTaxRule)
}

func (h *payrollConfigHandlerImpl) UpdateTaxRule(w http.ResponseWriter, r *http.Request) {
	var req payrollconfig.UpdateTaxRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.payrollConfigService.UpdateTaxRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Tax rule updated successfully", resp)
}

func (h *payrollConfigHandlerImpl) DeleteTaxRule(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Tax rule deleted successfully", h.payrollConfigService.DeleteTaxRule)
}

func (h *payrollConfigHandlerImpl) ApproveTaxRule(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "Tax rule approved", h.payrollConfigService.ApproveTaxRule)
}

func (h *payrollConfigHandlerImpl) RejectTaxRule(w http.ResponseWriter, r *http.Request) {
	withID(w, r, "Tax rule rejected", h.payrollConfigService.RejectTaxRule)
}
