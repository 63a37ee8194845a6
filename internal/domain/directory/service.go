package directory

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/carehome/carehome/internal/domain/audit"
	"github.com/carehome/carehome/internal/platform/auth"
)

type Service struct {
	repo  Repository
	trail audit.Recorder
}

func NewService(repo Repository, trail audit.Recorder) *Service {
	return &Service{repo: repo, trail: trail}
}

// Register creates a staff member. The id is caller-supplied and immutable.
func (s *Service) Register(ctx context.Context, id, name string, role Role) (*Staff, error) {
	if id == "" {
		return nil, fmt.Errorf("staff id is required")
	}
	if name == "" {
		return nil, fmt.Errorf("staff name is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	staff := &Staff{ID: id, Name: name, Role: role}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, auth.StaffIDFromContext(ctx), "register staff",
		fmt.Sprintf("%s %q registered as %s", id, name, role))
	return staff, nil
}

func (s *Service) Rename(ctx context.Context, id, newName string) error {
	if newName == "" {
		return fmt.Errorf("staff name is required")
	}
	if err := s.repo.UpdateName(ctx, id, newName); err != nil {
		return err
	}
	s.trail.Record(ctx, auth.StaffIDFromContext(ctx), "rename staff",
		fmt.Sprintf("%s renamed to %q", id, newName))
	return nil
}

// SetCredential hashes and stores a new login secret for a staff member.
func (s *Service) SetCredential(ctx context.Context, id, secret string) error {
	if secret == "" {
		return fmt.Errorf("credential secret is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing credential: %w", err)
	}
	if err := s.repo.UpdateCredential(ctx, id, string(hash)); err != nil {
		return err
	}
	s.trail.Record(ctx, auth.StaffIDFromContext(ctx), "set credential",
		fmt.Sprintf("credential updated for %s", id))
	return nil
}

func (s *Service) Lookup(ctx context.Context, id string) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CountByRole(ctx context.Context) (map[Role]int, error) {
	return s.repo.CountByRole(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Authenticate verifies a staff member's secret and returns the record for
// token issuing. Unknown ids and wrong secrets both map to ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, id, secret string) (*Staff, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if staff.CredentialHash == "" {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.CredentialHash), []byte(secret)) != nil {
		return nil, ErrBadCredentials
	}
	return staff, nil
}
