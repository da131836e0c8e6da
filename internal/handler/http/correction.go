package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)

	StartReview(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Escalate(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	AutoEscalate(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{correctionService: correctionService}
}

func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req correction.CreateCorrectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.correctionService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Correction request submitted", resp)
}

func correctionFilter(q *query) correction.CorrectionFilter {
	return correction.CorrectionFilter{
		Status:             q.str("status"),
		EmployeeID:         q.str("employeeId"),
		AttendanceRecordID: q.str("attendanceRecordId"),
		Params:             q.page(),
	}
}

func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := correctionFilter(q)
	if !q.done(w) {
		return
	}

	page, err := h.correctionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *correctionHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := correctionFilter(q)
	if !q.done(w) {
		return
	}

	page, err := h.correctionService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.correctionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *correctionHandlerImpl) review(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(req correction.ReviewRequest) (correction.CorrectionResponse, error),
) {
	var req correction.ReviewRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := fn(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, resp)
}

func (h *correctionHandlerImpl) StartReview(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Correction request in review", func(req correction.ReviewRequest) (correction.CorrectionResponse, error) {
		return h.correctionService.StartReview(r.Context(), req)
	})
}

func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Correction request approved", func(req correction.ReviewRequest) (correction.CorrectionResponse, error) {
		return h.correctionService.Approve(r.Context(), req)
	})
}

func (h *correctionHandlerImpl) Escalate(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Correction request escalated", func(req correction.ReviewRequest) (correction.CorrectionResponse, error) {
		return h.correctionService.Escalate(r.Context(), req)
	})
}

func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req correction.RejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.correctionService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request rejected", resp)
}

func (h *correctionHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.correctionService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request cancelled", resp)
}

func (h *correctionHandlerImpl) AutoEscalate(w http.ResponseWriter, r *http.Request) {
	var req correction.AutoEscalateRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	threshold := 0
	if req.ThresholdDays != nil {
		threshold = *req.ThresholdDays
	}
	resp, err := h.correctionService.AutoEscalateOverdue(r.Context(), threshold)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overdue correction requests escalated", resp)
}
