package patient

import (
	"context"
	"fmt"

	"github.com/carehome/carehome/internal/domain/ward"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add creates a patient record without placing it in a bed. Placement runs
// through the clinical workflow.
func (s *Service) Add(ctx context.Context, id, name string, gender Gender, isolation bool) (*Patient, error) {
	if id == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if name == "" {
		return nil, fmt.Errorf("patient name is required")
	}
	if !gender.Valid() {
		return nil, fmt.Errorf("invalid gender %q", gender)
	}
	p := &Patient{ID: id, Name: name, Gender: gender, Isolation: isolation}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// FindOccupant returns the patient in a bed, nil if the bed is vacant.
func (s *Service) FindOccupant(ctx context.Context, bedID string) (*Patient, error) {
	return s.repo.FindByBed(ctx, bedID)
}

func (s *Service) AssignBed(ctx context.Context, patientID, bedID string) error {
	return s.repo.AssignBed(ctx, patientID, bedID)
}

func (s *Service) VacateBed(ctx context.Context, bedID string) error {
	return s.repo.ClearBed(ctx, bedID)
}

func (s *Service) SetIsolation(ctx context.Context, patientID string, isolation bool) error {
	return s.repo.SetIsolation(ctx, patientID, isolation)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Occupancy adapts the patient store to the placement rules' view of beds.
func (s *Service) Occupancy() ward.OccupancyView {
	return occupancyView{repo: s.repo}
}

type occupancyView struct {
	repo Repository
}

func (v occupancyView) OccupantOf(ctx context.Context, bedID string) (*ward.Occupant, error) {
	p, err := v.repo.FindByBed(ctx, bedID)
	if err != nil || p == nil {
		return nil, err
	}
	return &ward.Occupant{PatientID: p.ID, Gender: string(p.Gender), Isolation: p.Isolation}, nil
}

func (v occupancyView) OccupantsInRoom(ctx context.Context, wardName string, room int) (map[string]*ward.Occupant, error) {
	patients, err := v.repo.ListByRoom(ctx, wardName, room)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*ward.Occupant, len(patients))
	for _, p := range patients {
		if p.BedID == nil {
			continue
		}
		result[*p.BedID] = &ward.Occupant{PatientID: p.ID, Gender: string(p.Gender), Isolation: p.Isolation}
	}
	return result, nil
}
