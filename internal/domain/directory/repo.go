package directory

import "context"

// Repository defines the persistence interface for staff records.
type Repository interface {
	Create(ctx context.Context, staff *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateCredential(ctx context.Context, id, credentialHash string) error
	CountByRole(ctx context.Context) (map[Role]int, error)
	List(ctx context.Context, limit, offset int) ([]*Staff, int, error)
}
