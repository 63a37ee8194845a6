package ward

import "context"

// Repository defines the persistence interface for beds.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Bed, error)
	List(ctx context.Context) ([]*Bed, error)
	ListRoom(ctx context.Context, wardName string, room int) ([]*Bed, error)
	Seed(ctx context.Context, beds []Bed) error
}
