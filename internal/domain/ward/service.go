package ward

import "context"

type Service struct {
	layout Layout
	repo   Repository
}

func NewService(layout Layout, repo Repository) *Service {
	return &Service{layout: layout, repo: repo}
}

func (s *Service) Layout() Layout {
	return s.layout
}

func (s *Service) FindBed(ctx context.Context, id string) (*Bed, error) {
	if _, _, _, err := ParseBedID(id); err != nil {
		return nil, ErrUnknownBed
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBeds(ctx context.Context) ([]*Bed, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListRoom(ctx context.Context, wardName string, room int) ([]*Bed, error) {
	return s.repo.ListRoom(ctx, wardName, room)
}

// SeedLayout materializes the configured layout into the bed table.
func (s *Service) SeedLayout(ctx context.Context) error {
	return s.repo.Seed(ctx, s.layout.Beds())
}
