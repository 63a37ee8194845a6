package ward

import (
	"context"
	"fmt"
)

// Occupant is the slice of a patient record that placement rules need.
type Occupant struct {
	PatientID string
	Gender    string
	Isolation bool
}

// OccupancyView reports current bed occupancy. The patient component
// implements it; placement stays free of patient persistence details.
type OccupancyView interface {
	// OccupantOf returns the occupant of a bed, or nil if the bed is vacant.
	OccupantOf(ctx context.Context, bedID string) (*Occupant, error)
	// OccupantsInRoom maps occupied bed ids to occupants for one room.
	OccupantsInRoom(ctx context.Context, wardName string, room int) (map[string]*Occupant, error)
}

// Placement evaluates the bed-occupancy invariants.
type Placement struct {
	layout Layout
	occ    OccupancyView
}

func NewPlacement(layout Layout, occ OccupancyView) *Placement {
	return &Placement{layout: layout, occ: occ}
}

// CanPlace checks whether a patient may take a bed. The bed must be vacant,
// an isolation patient needs a single-bed room, and in shared rooms every
// current occupant must share the candidate's gender.
func (p *Placement) CanPlace(ctx context.Context, candidate Occupant, bed *Bed) error {
	existing, err := p.occ.OccupantOf(ctx, bed.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrBedOccupied
	}

	capacity := p.layout.Capacity(bed.Room)
	if capacity == 0 {
		return ErrUnknownBed
	}
	if candidate.Isolation && capacity > 1 {
		return &PlacementError{Reason: fmt.Sprintf(
			"isolation requires a single-bed room, room %d holds %d", bed.Room, capacity)}
	}
	if capacity == 1 {
		return nil
	}

	roommates, err := p.occ.OccupantsInRoom(ctx, bed.Ward, bed.Room)
	if err != nil {
		return err
	}
	for bedID, other := range roommates {
		if bedID == bed.ID {
			continue
		}
		if other.Gender != candidate.Gender {
			return &PlacementError{Reason: fmt.Sprintf(
				"room %d of ward %s holds a %s occupant", bed.Room, bed.Ward, other.Gender)}
		}
	}
	return nil
}
