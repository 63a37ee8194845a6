package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientColumns = `id, name, gender, isolation, bed_id, created_at, updated_at`

const uniqueViolation = "23505"

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, name, gender, isolation, bed_id)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Gender, p.Isolation, p.BedID,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicatePatient
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patient WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (r *repoPG) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patient WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// FindByBed returns nil without error when the bed is vacant.
func (r *repoPG) FindByBed(ctx context.Context, bedID string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patient WHERE bed_id = $1`, bedID))
}

func (r *repoPG) ListByRoom(ctx context.Context, wardName string, room int) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedPatientColumns+`
		FROM patient p
		JOIN bed b ON p.bed_id = b.id
		WHERE b.ward = $1 AND b.room = $2
		ORDER BY b.number`,
		wardName, room)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

const prefixedPatientColumns = `p.id, p.name, p.gender, p.isolation, p.bed_id, p.created_at, p.updated_at`

func (r *repoPG) AssignBed(ctx context.Context, patientID, bedID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE patient SET bed_id = $2, updated_at = NOW() WHERE id = $1`, patientID, bedID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *repoPG) ClearBed(ctx context.Context, bedID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE patient SET bed_id = NULL, updated_at = NOW() WHERE bed_id = $1`, bedID)
	return err
}

func (r *repoPG) SetIsolation(ctx context.Context, patientID string, isolation bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE patient SET isolation = $2, updated_at = NOW() WHERE id = $1`, patientID, isolation)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+patientColumns+` FROM patient ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

// scanPatient returns (nil, nil) on no rows so vacant-bed lookups stay
// error free.
func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Gender, &p.Isolation, &p.BedID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
