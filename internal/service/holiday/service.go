package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	tx          database.Transactor
	holidayRepo holiday.HolidayRepository
}

func NewHolidayService(tx database.Transactor, holidayRepo holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{tx: tx, holidayRepo: holidayRepo}
}

func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.create(ctx, req, actor.CreatedBy())
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return holiday.ToResponse(created), nil
}

func (s *HolidayServiceImpl) create(ctx context.Context, req holiday.CreateHolidayRequest, createdBy *string) (holiday.Holiday, error) {
	name := strings.TrimSpace(req.Name)
	exists, err := s.holidayRepo.ExistsByNameAndStartDate(ctx, name, req.ParsedStartDate)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to check holiday: %w", err)
	}
	if exists {
		return holiday.Holiday{}, holiday.ErrHolidayExists
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		Name:      name,
		Type:      holiday.Type(req.Type),
		StartDate: req.ParsedStartDate,
		EndDate:   req.ParsedEndDate,
		Active:    true,
		CreatedBy: createdBy,
	})
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// BulkCreate inserts each row in its own savepoint so one bad row does not
// undo the others. It returns holiday.ErrAllHolidaysFailed together with the
// report when nothing was created.
func (s *HolidayServiceImpl) BulkCreate(ctx context.Context, req holiday.BulkCreateHolidayRequest) (holiday.BulkCreateHolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.BulkCreateHolidayResponse{}, err
	}
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return holiday.BulkCreateHolidayResponse{}, err
	}

	resp := holiday.BulkCreateHolidayResponse{
		CreatedHolidays: []holiday.HolidayResponse{},
		FailedHolidays:  []holiday.FailedHoliday{},
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for i := range req.Holidays {
			row := req.Holidays[i]
			if err := row.Validate(); err != nil {
				resp.FailedHolidays = append(resp.FailedHolidays, holiday.FailedHoliday{Index: i, Name: row.Name, Reason: err.Error()})
				continue
			}

			var created holiday.Holiday
			err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
				var err error
				created, err = s.create(ctx, row, actor.CreatedBy())
				return err
			})
			if err != nil {
				resp.FailedHolidays = append(resp.FailedHolidays, holiday.FailedHoliday{Index: i, Name: row.Name, Reason: failureReason(err)})
				continue
			}
			resp.CreatedHolidays = append(resp.CreatedHolidays, holiday.ToResponse(created))
		}
		return nil
	})
	if err != nil {
		return holiday.BulkCreateHolidayResponse{}, fmt.Errorf("failed to import holidays: %w", err)
	}

	slog.InfoContext(ctx, "holiday bulk import finished",
		"created", len(resp.CreatedHolidays),
		"failed", len(resp.FailedHolidays),
	)

	if len(resp.CreatedHolidays) == 0 {
		return resp, holiday.ErrAllHolidaysFailed
	}
	return resp, nil
}

// failureReason hides infrastructure details from the per-row report.
func failureReason(err error) string {
	if errors.Is(err, holiday.ErrHolidayExists) {
		return holiday.ErrHolidayExists.Error()
	}
	return "could not be saved"
}

func (s *HolidayServiceImpl) Get(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	h, err := s.holidayRepo.GetByID(ctx, id)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return holiday.ToResponse(h), nil
}

func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) (pagination.Page[holiday.HolidayResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[holiday.HolidayResponse]{}, err
	}
	holidays, total, err := s.holidayRepo.List(ctx, filter)
	if err != nil {
		return pagination.Page[holiday.HolidayResponse]{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	return pagination.NewPage(pagination.Map(holidays, holiday.ToResponse), total, filter.Params), nil
}

func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	h, err := s.holidayRepo.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	if err := req.Apply(&h); err != nil {
		return holiday.HolidayResponse{}, err
	}
	updated, err := s.holidayRepo.Update(ctx, h)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return holiday.ToResponse(updated), nil
}

func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.holidayRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func (s *HolidayServiceImpl) Check(ctx context.Context, date time.Time) (holiday.HolidayCheckResponse, error) {
	found, err := s.holidayRepo.FindActiveOn(ctx, date)
	if err != nil {
		return holiday.HolidayCheckResponse{}, fmt.Errorf("failed to check holiday: %w", err)
	}
	resp := holiday.HolidayCheckResponse{Date: date.Format(validator.DateLayout)}
	if len(found) > 0 {
		h := holiday.ToResponse(found[0])
		resp.IsHoliday = true
		resp.Holiday = &h
	}
	return resp, nil
}

func (s *HolidayServiceImpl) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	found, err := s.holidayRepo.FindActiveOn(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return len(found) > 0, nil
}
