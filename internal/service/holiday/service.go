package holiday

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
)

type HolidayServiceImpl struct {
	repo *cached.Repository
}

func NewHolidayService(repo *cached.Repository) holiday.HolidayService {
	return &HolidayServiceImpl{repo: repo}
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}

	date, err := utils.ParseDateKey(req.Date)
	if err != nil {
		return holiday.Holiday{}, err
	}

	created, err := s.repo.CreateHoliday(ctx, holiday.Holiday{
		Title:      req.Title,
		Date:       date,
		IsOptional: req.IsOptional,
	})
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}

	h, err := s.repo.HolidayByID(ctx, req.ID)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to get holiday by ID: %w", err)
	}

	if req.Title != nil {
		h.Title = *req.Title
	}
	if req.Date != nil {
		date, err := utils.ParseDateKey(*req.Date)
		if err != nil {
			return holiday.Holiday{}, err
		}
		h.Date = date
	}
	if req.IsOptional != nil {
		h.IsOptional = *req.IsOptional
	}

	if err := s.repo.UpdateHoliday(ctx, h); err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return h, nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteHoliday(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}
