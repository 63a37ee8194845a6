// Package coverage accounts doctor minutes per day and decides whether a
// day is sufficiently covered for prescribing.
package coverage

import (
	"errors"

	"github.com/carehome/carehome/pkg/weektime"
)

// DoctorMinutes maps to the doctor_minutes table, one row per (doctor, day).
// Repeated upserts replace the stored value, they do not accumulate.
type DoctorMinutes struct {
	DoctorID string       `db:"doctor_id" json:"doctor_id"`
	Day      weektime.Day `db:"day" json:"day"`
	Minutes  int          `db:"minutes" json:"minutes"`
}

// Rules carries the injected coverage threshold.
type Rules struct {
	DailyMinutesMin int
}

// DefaultRules requires 60 minutes of doctor time per day.
func DefaultRules() Rules {
	return Rules{DailyMinutesMin: 60}
}

var ErrNegativeMinutes = errors.New("minutes must not be negative")
