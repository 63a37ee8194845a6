package ward

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const bedColumns = `id, ward, room, number`

func (r *repoPG) GetByID(ctx context.Context, id string) (*Bed, error) {
	return scanBed(r.pool.QueryRow(ctx,
		`SELECT `+bedColumns+` FROM bed WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context) ([]*Bed, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bedColumns+` FROM bed ORDER BY ward, room, number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBeds(rows)
}

func (r *repoPG) ListRoom(ctx context.Context, wardName string, room int) ([]*Bed, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bedColumns+` FROM bed WHERE ward = $1 AND room = $2 ORDER BY number`,
		wardName, room)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBeds(rows)
}

// Seed inserts the layout's beds, skipping any that already exist.
func (r *repoPG) Seed(ctx context.Context, beds []Bed) error {
	for _, b := range beds {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO bed (id, ward, room, number)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			b.ID, b.Ward, b.Room, b.Number,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func collectBeds(rows pgx.Rows) ([]*Bed, error) {
	var beds []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}
	return beds, rows.Err()
}

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.Ward, &b.Room, &b.Number)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownBed
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
