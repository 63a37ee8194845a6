package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carehome/carehome/internal/domain/ward"
)

type mockRepo struct {
	patients map[string]*Patient
	order    []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[string]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; ok {
		return ErrDuplicatePatient
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (m *mockRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.patients[id]
	return ok, nil
}

func (m *mockRepo) FindByBed(_ context.Context, bedID string) (*Patient, error) {
	for _, p := range m.patients {
		if p.BedID != nil && *p.BedID == bedID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) ListByRoom(_ context.Context, wardName string, room int) ([]*Patient, error) {
	var result []*Patient
	for _, id := range m.order {
		p := m.patients[id]
		if p.BedID == nil {
			continue
		}
		w, r, _, err := ward.ParseBedID(*p.BedID)
		if err == nil && w == wardName && r == room {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepo) AssignBed(_ context.Context, patientID, bedID string) error {
	p, ok := m.patients[patientID]
	if !ok {
		return ErrPatientNotFound
	}
	p.BedID = &bedID
	return nil
}

func (m *mockRepo) ClearBed(_ context.Context, bedID string) error {
	for _, p := range m.patients {
		if p.BedID != nil && *p.BedID == bedID {
			p.BedID = nil
		}
	}
	return nil
}

func (m *mockRepo) SetIsolation(_ context.Context, patientID string, isolation bool) error {
	p, ok := m.patients[patientID]
	if !ok {
		return ErrPatientNotFound
	}
	p.Isolation = isolation
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	total := len(m.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	var result []*Patient
	for _, id := range m.order[offset:end] {
		result = append(result, m.patients[id])
	}
	return result, total, nil
}

func TestAdd(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	p, err := svc.Add(ctx, "p1", "Rana", GenderFemale, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if p.BedID != nil {
		t.Error("new patient must not have a bed")
	}

	if _, err := svc.Add(ctx, "p1", "Other", GenderMale, false); !errors.Is(err, ErrDuplicatePatient) {
		t.Fatalf("expected ErrDuplicatePatient, got %v", err)
	}
	if _, err := svc.Add(ctx, "p2", "X", Gender("other"), false); err == nil {
		t.Fatal("expected gender validation error")
	}
}

func TestAssignAndVacate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	svc.Add(ctx, "p1", "Rana", GenderFemale, false)
	if err := svc.AssignBed(ctx, "p1", "A-1-1"); err != nil {
		t.Fatalf("AssignBed: %v", err)
	}

	occ, err := svc.FindOccupant(ctx, "A-1-1")
	if err != nil {
		t.Fatalf("FindOccupant: %v", err)
	}
	if occ == nil || occ.ID != "p1" {
		t.Fatalf("unexpected occupant: %+v", occ)
	}

	if err := svc.VacateBed(ctx, "A-1-1"); err != nil {
		t.Fatalf("VacateBed: %v", err)
	}
	occ, _ = svc.FindOccupant(ctx, "A-1-1")
	if occ != nil {
		t.Error("bed should be vacant after vacate")
	}
	p, _ := svc.Get(ctx, "p1")
	if p.BedID != nil {
		t.Error("patient bed reference should be cleared")
	}
}

func TestOccupancyView(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	svc.Add(ctx, "p1", "Rana", GenderFemale, false)
	svc.Add(ctx, "p2", "Mila", GenderFemale, true)
	svc.AssignBed(ctx, "p1", "A-5-1")
	svc.AssignBed(ctx, "p2", "A-5-2")

	view := svc.Occupancy()

	occ, err := view.OccupantOf(ctx, "A-5-1")
	if err != nil {
		t.Fatalf("OccupantOf: %v", err)
	}
	if occ == nil || occ.PatientID != "p1" || occ.Gender != "female" {
		t.Fatalf("unexpected occupant: %+v", occ)
	}

	if occ, _ := view.OccupantOf(ctx, "B-1-1"); occ != nil {
		t.Error("expected vacant bed")
	}

	room, err := view.OccupantsInRoom(ctx, "A", 5)
	if err != nil {
		t.Fatalf("OccupantsInRoom: %v", err)
	}
	if len(room) != 2 {
		t.Fatalf("expected 2 occupants, got %d", len(room))
	}
	if room["A-5-2"] == nil || !room["A-5-2"].Isolation {
		t.Errorf("expected isolation occupant in A-5-2: %+v", room["A-5-2"])
	}
}
