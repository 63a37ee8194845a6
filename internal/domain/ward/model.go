// Package ward owns the bed addressing scheme and the placement invariants
// that guard bed occupancy.
package ward

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Bed maps to the bed table. The id is the canonical "ward-room-number"
// label, unique across the facility.
type Bed struct {
	ID     string `db:"id" json:"id"`
	Ward   string `db:"ward" json:"ward"`
	Room   int    `db:"room" json:"room"`
	Number int    `db:"number" json:"number"`
}

// BedID builds the canonical bed label.
func BedID(ward string, room, number int) string {
	return fmt.Sprintf("%s-%d-%d", ward, room, number)
}

// ParseBedID splits a "ward-room-number" label.
func ParseBedID(id string) (ward string, room, number int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("invalid bed id %q", id)
	}
	room, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid bed id %q", id)
	}
	number, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid bed id %q", id)
	}
	return parts[0], room, number, nil
}

// Layout is the static facility topology, injected at construction so room
// capacities are not baked into the rules.
type Layout struct {
	Wards          []string
	RoomCapacities map[int]int
}

// DefaultLayout is two wards of six rooms with capacities 1,1,2,2,3,4,
// 13 beds per ward.
func DefaultLayout() Layout {
	return Layout{
		Wards:          []string{"A", "B"},
		RoomCapacities: map[int]int{1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 6: 4},
	}
}

// Capacity returns the bed count of a room, zero if the room is unknown.
func (l Layout) Capacity(room int) int {
	return l.RoomCapacities[room]
}

// Beds enumerates every bed in the layout, wards in declared order, rooms
// and bed numbers ascending.
func (l Layout) Beds() []Bed {
	rooms := make([]int, 0, len(l.RoomCapacities))
	for room := range l.RoomCapacities {
		rooms = append(rooms, room)
	}
	sort.Ints(rooms)

	var beds []Bed
	for _, w := range l.Wards {
		for _, room := range rooms {
			for n := 1; n <= l.RoomCapacities[room]; n++ {
				beds = append(beds, Bed{ID: BedID(w, room, n), Ward: w, Room: room, Number: n})
			}
		}
	}
	return beds
}

var (
	ErrUnknownBed  = errors.New("bed not found")
	ErrBedOccupied = errors.New("bed is occupied")
	ErrBedVacant   = errors.New("bed is vacant")
)

// PlacementError reports a violated cohabitation or isolation rule.
type PlacementError struct {
	Reason string
}

func (e *PlacementError) Error() string {
	return "placement rule violation: " + e.Reason
}
