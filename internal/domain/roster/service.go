package roster

import (
	"context"
	"fmt"

	"github.com/carehome/carehome/internal/domain/audit"
	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/pkg/keymutex"
	"github.com/carehome/carehome/pkg/weektime"
)

type Service struct {
	rules Rules
	repo  Repository
	trail audit.Recorder
	locks *keymutex.KeyMutex
}

func NewService(rules Rules, repo Repository, trail audit.Recorder) *Service {
	return &Service{rules: rules, repo: repo, trail: trail, locks: keymutex.New()}
}

func (s *Service) Rules() Rules {
	return s.rules
}

func nurseDayKey(nurseID string, day weektime.Day) string {
	return fmt.Sprintf("roster:%s:%d", nurseID, day)
}

// Assign adds a canonical shift for a nurse. The day's summed hours are
// checked against the cap before anything is written; an over-cap
// assignment never persists.
func (s *Service) Assign(ctx context.Context, nurseID string, day weektime.Day, shapeName string) (*Shift, error) {
	if nurseID == "" {
		return nil, fmt.Errorf("nurse id is required")
	}
	if !day.Valid() {
		return nil, fmt.Errorf("invalid day %d", day)
	}
	shape, err := s.rules.ShapeByName(shapeName)
	if err != nil {
		return nil, err
	}

	key := nurseDayKey(nurseID, day)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	exists, err := s.repo.Exists(ctx, nurseID, day, shape.Start, shape.End)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateShift
	}

	hours, err := s.repo.HoursOn(ctx, nurseID, day)
	if err != nil {
		return nil, err
	}
	if hours+shape.Hours() > s.rules.DailyHourCap {
		return nil, fmt.Errorf("%w: %s already has %dh on %s", ErrHourCapExceeded, nurseID, hours, day)
	}

	shift := &Shift{NurseID: nurseID, Day: day, Start: shape.Start, End: shape.End}
	if err := s.repo.Add(ctx, shift); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, auth.StaffIDFromContext(ctx), "assign shift",
		fmt.Sprintf("nurse %s shift %s on %s", nurseID, shape.Name, day))
	return shift, nil
}

// Remove deletes the exact canonical shift, failing when no match exists.
func (s *Service) Remove(ctx context.Context, nurseID string, day weektime.Day, shapeName string) error {
	shape, err := s.rules.ShapeByName(shapeName)
	if err != nil {
		return err
	}

	key := nurseDayKey(nurseID, day)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	removed, err := s.repo.Remove(ctx, nurseID, day, shape.Start, shape.End)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrShiftNotFound
	}

	s.trail.Record(ctx, auth.StaffIDFromContext(ctx), "remove shift",
		fmt.Sprintf("nurse %s shift %s on %s", nurseID, shape.Name, day))
	return nil
}

// OnDuty reports whether the nurse has a shift covering t; a shift covers
// its start minute but not its end minute.
func (s *Service) OnDuty(ctx context.Context, nurseID string, day weektime.Day, t weektime.TimeOfDay) (bool, error) {
	return s.repo.HasShiftCovering(ctx, nurseID, day, t)
}

// DayCovered reports whether any nurse holds the exact canonical shape on
// the day. Coverage is per shift slot, not per nurse.
func (s *Service) DayCovered(ctx context.Context, day weektime.Day, shape Shape) (bool, error) {
	return s.repo.SlotCovered(ctx, day, shape.Start, shape.End)
}

func (s *Service) HoursOn(ctx context.Context, nurseID string, day weektime.Day) (int, error) {
	return s.repo.HoursOn(ctx, nurseID, day)
}

func (s *Service) ListForNurse(ctx context.Context, nurseID string) ([]*Shift, error) {
	return s.repo.ListForNurse(ctx, nurseID)
}

func (s *Service) HoursByNurseDay(ctx context.Context) ([]NurseDayHours, error) {
	return s.repo.HoursByNurseDay(ctx)
}
