package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const entryColumns = `id, at, staff_id, action, detail`

func (r *repoPG) Append(ctx context.Context, entry *Entry) error {
	entry.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_entry (id, at, staff_id, action, detail)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.At, entry.StaffID, entry.Action, entry.Detail,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, staffID string, limit, offset int) ([]*Entry, int, error) {
	countQuery := `SELECT COUNT(*) FROM audit_entry`
	query := `SELECT ` + entryColumns + ` FROM audit_entry`
	var countArgs, args []interface{}
	if staffID != "" {
		countQuery += ` WHERE staff_id = $1`
		query += ` WHERE staff_id = $1 ORDER BY at, id LIMIT $2 OFFSET $3`
		countArgs = []interface{}{staffID}
		args = []interface{}{staffID, limit, offset}
	} else {
		query += ` ORDER BY at, id LIMIT $1 OFFSET $2`
		args = []interface{}{limit, offset}
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.At, &e.StaffID, &e.Action, &e.Detail); err != nil {
		return nil, err
	}
	return &e, nil
}
