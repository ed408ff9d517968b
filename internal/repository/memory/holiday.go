package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

type holidayRepository struct {
	db *DB
}

func NewHolidayRepository(db *DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

func (h *holidayRepository) ListInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	h.db.mu.RLock()
	defer h.db.mu.RUnlock()

	var out []holiday.Holiday
	for _, hol := range h.db.holidays {
		if inRange(hol.Date, start, end) {
			out = append(out, hol)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (h *holidayRepository) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	h.db.mu.RLock()
	defer h.db.mu.RUnlock()

	hol, ok := h.db.holidays[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return hol, nil
}

func (h *holidayRepository) Create(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	hol.Date = utils.TruncateDay(hol.Date)
	if h.dateTakenLocked(hol.Date, "") {
		return holiday.Holiday{}, holiday.ErrHolidayDateConflict
	}
	if hol.ID == "" {
		hol.ID = uuid.NewString()
	}
	h.db.holidays[hol.ID] = hol
	return hol, nil
}

func (h *holidayRepository) Update(ctx context.Context, hol holiday.Holiday) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	if _, ok := h.db.holidays[hol.ID]; !ok {
		return holiday.ErrHolidayNotFound
	}
	hol.Date = utils.TruncateDay(hol.Date)
	if h.dateTakenLocked(hol.Date, hol.ID) {
		return holiday.ErrHolidayDateConflict
	}
	h.db.holidays[hol.ID] = hol
	return nil
}

func (h *holidayRepository) Delete(ctx context.Context, id string) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	if _, ok := h.db.holidays[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(h.db.holidays, id)
	return nil
}

func (h *holidayRepository) dateTakenLocked(date time.Time, exceptID string) bool {
	for id, hol := range h.db.holidays {
		if id != exceptID && sameDay(hol.Date, date) {
			return true
		}
	}
	return false
}
