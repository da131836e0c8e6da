package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PolicyHandler interface {
	CreateOvertimeRule(w http.ResponseWriter, r *http.Request)
	ListOvertimeRules(w http.ResponseWriter, r *http.Request)
	GetOvertimeRule(w http.ResponseWriter, r *http.Request)
	UpdateOvertimeRule(w http.ResponseWriter, r *http.Request)
	ApproveOvertimeRule(w http.ResponseWriter, r *http.Request)
	DeleteOvertimeRule(w http.ResponseWriter, r *http.Request)
	CalculateOvertime(w http.ResponseWriter, r *http.Request)

	CreateLatenessRule(w http.ResponseWriter, r *http.Request)
	ListLatenessRules(w http.ResponseWriter, r *http.Request)
	GetLatenessRule(w http.ResponseWriter, r *http.Request)
	UpdateLatenessRule(w http.ResponseWriter, r *http.Request)
	DeleteLatenessRule(w http.ResponseWriter, r *http.Request)
	CalculateLateness(w http.ResponseWriter, r *http.Request)
}

type policyHandlerImpl struct {
	policyService policy.PolicyService
}

func NewPolicyHandler(policyService policy.PolicyService) PolicyHandler {
	return &policyHandlerImpl{policyService: policyService}
}

// ============= Overtime =============

func (h *policyHandlerImpl) CreateOvertimeRule(w http.ResponseWriter, r *http.Request) {
	var req policy.CreateOvertimeRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.policyService.CreateOvertimeRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Overtime rule created successfully", resp)
}

func (h *policyHandlerImpl) ListOvertimeRules(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := policy.OvertimeRuleFilter{
		DayType:  q.str("dayType"),
		Active:   q.flag("active"),
		Approved: q.flag("approved"),
		Params:   q.page(),
	}
	if !q.done(w) {
		return
	}

	page, err := h.policyService.ListOvertimeRules(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *policyHandlerImpl) GetOvertimeRule(w http.ResponseWriter, r *http.Request) {
	resp, err := h.policyService.GetOvertimeRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *policyHandlerImpl) UpdateOvertimeRule(w http.ResponseWriter, r *http.Request) {
	var req policy.UpdateOvertimeRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.policyService.UpdateOvertimeRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime rule updated successfully", resp)
}

func (h *policyHandlerImpl) ApproveOvertimeRule(w http.ResponseWriter, r *http.Request) {
	resp, err := h.policyService.ApproveOvertimeRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime rule approved successfully", resp)
}

func (h *policyHandlerImpl) DeleteOvertimeRule(w http.ResponseWriter, r *http.Request) {
	if err := h.policyService.DeleteOvertimeRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime rule deactivated successfully", nil)
}

func (h *policyHandlerImpl) CalculateOvertime(w http.ResponseWriter, r *http.Request) {
	var req policy.CalculateOvertimeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.policyService.CalculateOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ============= Lateness =============

func (h *policyHandlerImpl) CreateLatenessRule(w http.ResponseWriter, r *http.Request) {
	var req policy.CreateLatenessRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.policyService.CreateLatenessRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Lateness rule created successfully", resp)
}

func (h *policyHandlerImpl) ListLatenessRules(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := policy.LatenessRuleFilter{
		Active: q.flag("active"),
		Params: q.page(),
	}
	if !q.done(w) {
		return
	}

	page, err := h.policyService.ListLatenessRules(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *policyHandlerImpl) GetLatenessRule(w http.ResponseWriter, r *http.Request) {
	resp, err := h.policyService.GetLatenessRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *policyHandlerImpl) UpdateLatenessRule(w http.ResponseWriter, r *http.Request) {
	var req policy.UpdateLatenessRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.policyService.UpdateLatenessRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Lateness rule updated successfully", resp)
}

func (h *policyHandlerImpl) DeleteLatenessRule(w http.ResponseWriter, r *http.Request) {
	if err := h.policyService.DeleteLatenessRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Lateness rule deactivated successfully", nil)
}

func (h *policyHandlerImpl) CalculateLateness(w http.ResponseWriter, r *http.Request) {
	var req policy.CalculateLatenessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.policyService.CalculateLateness(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
