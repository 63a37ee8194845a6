package patient

import "context"

// Repository defines the persistence interface for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindByBed(ctx context.Context, bedID string) (*Patient, error)
	ListByRoom(ctx context.Context, wardName string, room int) ([]*Patient, error)
	AssignBed(ctx context.Context, patientID, bedID string) error
	ClearBed(ctx context.Context, bedID string) error
	SetIsolation(ctx context.Context, patientID string, isolation bool) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
