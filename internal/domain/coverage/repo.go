package coverage

import (
	"context"

	"github.com/carehome/carehome/pkg/weektime"
)

// Repository defines the persistence interface for doctor minutes.
type Repository interface {
	Upsert(ctx context.Context, doctorID string, day weektime.Day, minutes int) error
	// MinutesOn sums every doctor's minutes for the day.
	MinutesOn(ctx context.Context, day weektime.Day) (int, error)
	AllByDay(ctx context.Context) (map[weektime.Day]int, error)
	List(ctx context.Context) ([]*DoctorMinutes, error)
}
