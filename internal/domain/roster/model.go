// Package roster manages nurse shift assignments and the per-day hour cap.
package roster

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carehome/carehome/pkg/weektime"
)

// Shape is a canonical duty window. The two reference shapes overlap from
// 14:00 to 16:00 on purpose so handover is double-staffed.
type Shape struct {
	Name  string             `json:"name"`
	Start weektime.TimeOfDay `json:"start"`
	End   weektime.TimeOfDay `json:"end"`
}

// Hours is the shape duration in whole hours.
func (s Shape) Hours() int {
	return (int(s.End) - int(s.Start)) / 60
}

func (s Shape) Valid() bool {
	return s.Start.Valid() && s.End.Valid() && s.End > s.Start
}

// Rules carries the injected roster parameters.
type Rules struct {
	ShapeA       Shape
	ShapeB       Shape
	DailyHourCap int
}

// DefaultRules is Shift-A 08:00-16:00, Shift-B 14:00-22:00, cap 8 hours.
func DefaultRules() Rules {
	return Rules{
		ShapeA:       Shape{Name: "A", Start: weektime.NewTimeOfDay(8, 0), End: weektime.NewTimeOfDay(16, 0)},
		ShapeB:       Shape{Name: "B", Start: weektime.NewTimeOfDay(14, 0), End: weektime.NewTimeOfDay(22, 0)},
		DailyHourCap: 8,
	}
}

// Shapes returns the canonical shapes in slot order.
func (r Rules) Shapes() []Shape {
	return []Shape{r.ShapeA, r.ShapeB}
}

// ShapeByName resolves "A" or "B".
func (r Rules) ShapeByName(name string) (Shape, error) {
	switch name {
	case r.ShapeA.Name:
		return r.ShapeA, nil
	case r.ShapeB.Name:
		return r.ShapeB, nil
	}
	return Shape{}, fmt.Errorf("unknown shift shape %q", name)
}

// Shift maps to the nurse_shift table.
type Shift struct {
	ID      uuid.UUID          `db:"id" json:"id"`
	NurseID string             `db:"nurse_id" json:"nurse_id"`
	Day     weektime.Day       `db:"day" json:"day"`
	Start   weektime.TimeOfDay `db:"start_min" json:"start"`
	End     weektime.TimeOfDay `db:"end_min" json:"end"`
}

// Hours is the shift duration in whole hours.
func (s *Shift) Hours() int {
	return (int(s.End) - int(s.Start)) / 60
}

var (
	ErrDuplicateShift  = errors.New("shift already assigned")
	ErrHourCapExceeded = errors.New("daily hour cap exceeded")
	ErrShiftNotFound   = errors.New("shift not found")
)
