package http

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type HolidayHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BulkCreate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Check(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
}

func NewHolidayHandler(holidayService holiday.HolidayService) HolidayHandler {
	return &holidayHandlerImpl{holidayService: holidayService}
}

func (h *holidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.holidayService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holiday created successfully", resp)
}

// BulkCreate answers 201 when at least one row was created and 400 with the
// same report when none was.
func (h *holidayHandlerImpl) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req holiday.BulkCreateHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.holidayService.BulkCreate(r.Context(), req)
	if errors.Is(err, holiday.ErrAllHolidaysFailed) {
		response.ErrorWithData(w, http.StatusBadRequest, err.Error(), resp)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holidays imported", resp)
}

func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := holiday.HolidayFilter{
		From:   q.str("from"),
		To:     q.str("to"),
		Type:   q.str("type"),
		Active: q.flag("active"),
		Params: q.page(),
	}
	if !q.done(w) {
		return
	}

	page, err := h.holidayService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *holidayHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.holidayService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *holidayHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req holiday.UpdateHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.holidayService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday updated successfully", resp)
}

func (h *holidayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.holidayService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}

func (h *holidayHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	date, ok := validator.IsValidDate(r.URL.Query().Get("date"))
	if !ok {
		response.ValidationError(w, map[string]string{"date": "date must be in YYYY-MM-DD format"})
		return
	}

	resp, err := h.holidayService.Check(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
