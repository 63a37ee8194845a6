package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Recorder is the write side of the trail. Recording is best effort so a
// failing audit store never blocks the clinical action it describes.
type Recorder interface {
	Record(ctx context.Context, staffID, action, detail string)
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record appends an entry. Persistence failures are logged, not returned.
func (s *Service) Record(ctx context.Context, staffID, action, detail string) {
	entry := &Entry{
		At:      s.now(),
		StaffID: staffID,
		Action:  action,
		Detail:  detail,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error().
			Err(err).
			Str("staff_id", staffID).
			Str("action", action).
			Msg("audit append failed")
	}
}

func (s *Service) List(ctx context.Context, staffID string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, staffID, limit, offset)
}
