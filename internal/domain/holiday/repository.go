package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListInRange returns holidays whose date falls within [start, end].
	ListInRange(ctx context.Context, start, end time.Time) ([]Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
}
