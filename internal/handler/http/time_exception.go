package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeExceptionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)

	Assign(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Escalate(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	AutoEscalate(w http.ResponseWriter, r *http.Request)
}

type timeExceptionHandlerImpl struct {
	timeExceptionService timeexception.TimeExceptionService
}

func NewTimeExceptionHandler(timeExceptionService timeexception.TimeExceptionService) TimeExceptionHandler {
	return &timeExceptionHandlerImpl{timeExceptionService: timeExceptionService}
}

func (h *timeExceptionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timeexception.CreateTimeExceptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.timeExceptionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Time exception created successfully", resp)
}

func timeExceptionFilter(q *query) timeexception.TimeExceptionFilter {
	return timeexception.TimeExceptionFilter{
		Status:     q.str("status"),
		Type:       q.str("type"),
		EmployeeID: q.str("employeeId"),
		AssignedTo: q.str("assignedTo"),
		Params:     q.page(),
	}
}

func (h *timeExceptionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := timeExceptionFilter(q)
	if !q.done(w) {
		return
	}

	page, err := h.timeExceptionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *timeExceptionHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := timeExceptionFilter(q)
	if !q.done(w) {
		return
	}

	page, err := h.timeExceptionService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *timeExceptionHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeExceptionService.Summary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *timeExceptionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeExceptionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *timeExceptionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req timeexception.UpdateTimeExceptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.timeExceptionService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Time exception updated successfully", resp)
}

// Assign accepts an empty body; the employee's manager is assigned then.
func (h *timeExceptionHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req timeexception.AssignTimeExceptionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.timeExceptionService.Assign(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Time exception submitted for review", resp)
}

func (h *timeExceptionHandlerImpl) transition(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error),
) {
	var req timeexception.TransitionRequest
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

func (h *timeExceptionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Time exception approved", func(req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error) {
		return h.timeExceptionService.Approve(r.Context(), req)
	})
}

func (h *timeExceptionHandlerImpl) Escalate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Time exception escalated", func(req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error) {
		return h.timeExceptionService.Escalate(r.Context(), req)
	})
}

func (h *timeExceptionHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Time exception resolved", func(req timeexception.TransitionRequest) (timeexception.TimeExceptionResponse, error) {
		return h.timeExceptionService.Resolve(r.Context(), req)
	})
}

func (h *timeExceptionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req timeexception.RejectTimeExceptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.timeExceptionService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Time exception rejected", resp)
}

func (h *timeExceptionHandlerImpl) AutoEscalate(w http.ResponseWriter, r *http.Request) {
	var req timeexception.AutoEscalateRequest
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
	resp, err := h.timeExceptionService.AutoEscalateOverdue(r.Context(), threshold)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overdue time exceptions escalated", resp)
}
