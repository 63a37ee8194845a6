package coverage

import (
	"context"
	"fmt"

	"github.com/carehome/carehome/internal/domain/audit"
	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/pkg/weektime"
)

type Service struct {
	rules Rules
	repo  Repository
	trail audit.Recorder
}

func NewService(rules Rules, repo Repository, trail audit.Recorder) *Service {
	return &Service{rules: rules, repo: repo, trail: trail}
}

func (s *Service) Rules() Rules {
	return s.rules
}

// Upsert records a doctor's minutes for a day, replacing any prior value
// for the same (doctor, day).
func (s *Service) Upsert(ctx context.Context, doctorID string, day weektime.Day, minutes int) error {
	if doctorID == "" {
		return fmt.Errorf("doctor id is required")
	}
	if !day.Valid() {
		return fmt.Errorf("invalid day %d", day)
	}
	if minutes < 0 {
		return ErrNegativeMinutes
	}
	if err := s.repo.Upsert(ctx, doctorID, day, minutes); err != nil {
		return err
	}
	s.trail.Record(ctx, auth.StaffIDFromContext(ctx), "set doctor minutes",
		fmt.Sprintf("doctor %s %d minutes on %s", doctorID, minutes, day))
	return nil
}

// MinutesOn sums every doctor's minutes for the day.
func (s *Service) MinutesOn(ctx context.Context, day weektime.Day) (int, error) {
	return s.repo.MinutesOn(ctx, day)
}

// SufficientlyRostered reports whether the day's summed minutes meet the
// threshold.
func (s *Service) SufficientlyRostered(ctx context.Context, day weektime.Day) (bool, error) {
	minutes, err := s.repo.MinutesOn(ctx, day)
	if err != nil {
		return false, err
	}
	return minutes >= s.rules.DailyMinutesMin, nil
}

func (s *Service) AllByDay(ctx context.Context) (map[weektime.Day]int, error) {
	return s.repo.AllByDay(ctx)
}

func (s *Service) List(ctx context.Context) ([]*DoctorMinutes, error) {
	return s.repo.List(ctx)
}
