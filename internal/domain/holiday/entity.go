package holiday

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

type Holiday struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	IsOptional bool      `json:"is_optional"`
}

// Lookup indexes holidays by normalized calendar day (YYYY-MM-DD).
type Lookup map[string]Holiday

// NewLookup builds a Lookup. Later entries for the same day replace earlier ones.
func NewLookup(holidays []Holiday) Lookup {
	lookup := make(Lookup, len(holidays))
	for _, h := range holidays {
		lookup[utils.DateKey(h.Date)] = h
	}
	return lookup
}

// On returns the holiday for date, if any.
func (l Lookup) On(date time.Time) (Holiday, bool) {
	h, ok := l[utils.DateKey(date)]
	return h, ok
}
