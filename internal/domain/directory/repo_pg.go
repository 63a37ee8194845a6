package directory

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

const staffColumns = `id, name, role, credential_hash, created_at, updated_at`

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func (r *repoPG) Create(ctx context.Context, staff *Staff) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff (id, name, role, credential_hash)
		VALUES ($1, $2, $3, $4)`,
		staff.ID, staff.Name, staff.Role, staff.CredentialHash,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateStaff
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

func (r *repoPG) UpdateName(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *repoPG) UpdateCredential(ctx context.Context, id, credentialHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET credential_hash = $2, updated_at = NOW() WHERE id = $1`, id, credentialHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *repoPG) CountByRole(ctx context.Context) (map[Role]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM staff GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Role]int)
	for rows.Next() {
		var role Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+staffColumns+` FROM staff ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var staff []*Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		staff = append(staff, s)
	}
	return staff, total, rows.Err()
}

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.Name, &s.Role, &s.CredentialHash, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
