package roster

import (
	"context"

	"github.com/carehome/carehome/pkg/weektime"
)

// NurseDayHours is one nurse's summed shift hours on one day.
type NurseDayHours struct {
	NurseID string       `json:"nurse_id"`
	Day     weektime.Day `json:"day"`
	Hours   int          `json:"hours"`
}

// Repository defines the persistence interface for nurse shifts.
type Repository interface {
	Add(ctx context.Context, shift *Shift) error
	// Remove deletes the exact (nurse, day, start, end) shift and reports
	// how many rows went away.
	Remove(ctx context.Context, nurseID string, day weektime.Day, start, end weektime.TimeOfDay) (int, error)
	ListForNurse(ctx context.Context, nurseID string) ([]*Shift, error)
	HoursOn(ctx context.Context, nurseID string, day weektime.Day) (int, error)
	// HasShiftCovering reports whether the nurse has a shift with
	// start <= t < end on the day.
	HasShiftCovering(ctx context.Context, nurseID string, day weektime.Day, t weektime.TimeOfDay) (bool, error)
	// SlotCovered reports whether any nurse holds the exact (start, end)
	// window on the day.
	SlotCovered(ctx context.Context, day weektime.Day, start, end weektime.TimeOfDay) (bool, error)
	// HoursByNurseDay returns every (nurse, day) hour sum, nurses in
	// lexicographic order, days Monday through Sunday within a nurse.
	HoursByNurseDay(ctx context.Context) ([]NurseDayHours, error)
	Exists(ctx context.Context, nurseID string, day weektime.Day, start, end weektime.TimeOfDay) (bool, error)
}
