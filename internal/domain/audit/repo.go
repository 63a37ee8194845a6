package audit

import "context"

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, staffID string, limit, offset int) ([]*Entry, int, error)
}
