package directory

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -- Mocks --

type mockRepo struct {
	staff map[string]*Staff
	order []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{staff: make(map[string]*Staff)}
}

func (m *mockRepo) Create(_ context.Context, s *Staff) error {
	if _, ok := m.staff[s.ID]; ok {
		return ErrDuplicateStaff
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.staff[s.ID] = s
	m.order = append(m.order, s.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return s, nil
}

func (m *mockRepo) UpdateName(_ context.Context, id, name string) error {
	s, ok := m.staff[id]
	if !ok {
		return ErrStaffNotFound
	}
	s.Name = name
	return nil
}

func (m *mockRepo) UpdateCredential(_ context.Context, id, hash string) error {
	s, ok := m.staff[id]
	if !ok {
		return ErrStaffNotFound
	}
	s.CredentialHash = hash
	return nil
}

func (m *mockRepo) CountByRole(_ context.Context) (map[Role]int, error) {
	counts := make(map[Role]int)
	for _, s := range m.staff {
		counts[s.Role]++
	}
	return counts, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Staff, int, error) {
	total := len(m.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	var result []*Staff
	for _, id := range m.order[offset:end] {
		result = append(result, m.staff[id])
	}
	return result, total, nil
}

type captureTrail struct {
	actions []string
}

func (t *captureTrail) Record(_ context.Context, _, action, _ string) {
	t.actions = append(t.actions, action)
}

// -- Tests --

func TestRegister(t *testing.T) {
	repo := newMockRepo()
	trail := &captureTrail{}
	svc := NewService(repo, trail)
	ctx := context.Background()

	staff, err := svc.Register(ctx, "n1", "Alice", RoleNurse)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if staff.ID != "n1" || staff.Role != RoleNurse {
		t.Errorf("unexpected staff: %+v", staff)
	}
	if len(trail.actions) != 1 || trail.actions[0] != "register staff" {
		t.Errorf("expected register audit entry, got %v", trail.actions)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &captureTrail{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "n1", "Alice", RoleNurse); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "n1", "Other", RoleDoctor)
	if !errors.Is(err, ErrDuplicateStaff) {
		t.Fatalf("expected ErrDuplicateStaff, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), &captureTrail{})
	ctx := context.Background()

	tests := []struct {
		name    string
		id, dn  string
		role    Role
	}{
		{"missing id", "", "Alice", RoleNurse},
		{"missing name", "n1", "", RoleNurse},
		{"bad role", "n1", "Alice", Role("janitor")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.id, tt.dn, tt.role); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRename(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &captureTrail{})
	ctx := context.Background()

	svc.Register(ctx, "n1", "Alice", RoleNurse)
	if err := svc.Rename(ctx, "n1", "Alicia"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	s, _ := svc.Lookup(ctx, "n1")
	if s.Name != "Alicia" {
		t.Errorf("name = %q, want Alicia", s.Name)
	}

	if err := svc.Rename(ctx, "ghost", "X"); !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &captureTrail{})
	ctx := context.Background()

	svc.Register(ctx, "d1", "Dr. Bell", RoleDoctor)
	if err := svc.SetCredential(ctx, "d1", "s3cret"); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}

	staff, err := svc.Authenticate(ctx, "d1", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if staff.ID != "d1" {
		t.Errorf("unexpected staff: %+v", staff)
	}

	if _, err := svc.Authenticate(ctx, "d1", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticate_NoCredentialSet(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &captureTrail{})
	ctx := context.Background()

	svc.Register(ctx, "n1", "Alice", RoleNurse)
	if _, err := svc.Authenticate(ctx, "n1", ""); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestCountByRole(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &captureTrail{})
	ctx := context.Background()

	svc.Register(ctx, "m1", "Marta", RoleManager)
	svc.Register(ctx, "n1", "Alice", RoleNurse)
	svc.Register(ctx, "n2", "Bea", RoleNurse)

	counts, err := svc.CountByRole(ctx)
	if err != nil {
		t.Fatalf("CountByRole: %v", err)
	}
	if counts[RoleManager] != 1 || counts[RoleNurse] != 2 || counts[RoleDoctor] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
