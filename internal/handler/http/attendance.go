package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Reevaluate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.attendanceService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Punch recorded", resp)
}

func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req attendance.ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.attendanceService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance import finished", resp)
}

func attendanceFilter(q *query) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		EmployeeID:     q.str("employeeId"),
		From:           q.str("from"),
		To:             q.str("to"),
		HasMissedPunch: q.flag("hasMissedPunch"),
		Params:         q.page(),
	}
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := attendanceFilter(q)
	if !q.done(w) {
		return
	}

	page, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := attendanceFilter(q)
	if !q.done(w) {
		return
	}

	page, err := h.attendanceService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *attendanceHandlerImpl) Reevaluate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.Reevaluate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record re-evaluated", resp)
}
