package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	CreateShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	GetShift(w http.ResponseWriter, r *http.Request)
	UpdateShift(w http.ResponseWriter, r *http.Request)

	AssignShift(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	GetAssignment(w http.ResponseWriter, r *http.Request)
	GetActiveAssignment(w http.ResponseWriter, r *http.Request)
	ApproveAssignment(w http.ResponseWriter, r *http.Request)
	CancelAssignment(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

func (h *shiftHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift created successfully", resp)
}

func (h *shiftHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := shift.ShiftFilter{Active: q.flag("active"), Params: q.page()}
	if !q.done(w) {
		return
	}

	page, err := h.shiftService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *shiftHandlerImpl) GetShift(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *shiftHandlerImpl) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.shiftService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift updated successfully", resp)
}

func (h *shiftHandlerImpl) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req shift.AssignShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.shiftService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift assigned successfully", resp)
}

func (h *shiftHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := shift.AssignmentFilter{
		EmployeeID: q.str("employeeId"),
		ShiftID:    q.str("shiftId"),
		Status:     q.str("status"),
		Params:     q.page(),
	}
	if !q.done(w) {
		return
	}

	page, err := h.shiftService.ListAssignments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *shiftHandlerImpl) GetAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.GetAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// GetActiveAssignment resolves the approved assignment covering ?employeeId on ?date.
func (h *shiftHandlerImpl) GetActiveAssignment(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	employeeID := r.URL.Query().Get("employeeId")
	if !validator.IsValidUUID(employeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	date, ok := validator.IsValidDate(r.URL.Query().Get("date"))
	if !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.shiftService.GetActiveAssignment(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *shiftHandlerImpl) ApproveAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.ApproveAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift assignment approved", resp)
}

func (h *shiftHandlerImpl) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.CancelAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift assignment cancelled", resp)
}
