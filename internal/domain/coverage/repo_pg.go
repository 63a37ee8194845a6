package coverage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehome/carehome/pkg/weektime"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Upsert(ctx context.Context, doctorID string, day weektime.Day, minutes int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor_minutes (doctor_id, day, minutes)
		VALUES ($1, $2, $3)
		ON CONFLICT (doctor_id, day) DO UPDATE SET minutes = EXCLUDED.minutes, updated_at = NOW()`,
		doctorID, int(day), minutes,
	)
	return err
}

func (r *repoPG) MinutesOn(ctx context.Context, day weektime.Day) (int, error) {
	var minutes int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(minutes), 0) FROM doctor_minutes WHERE day = $1`,
		int(day)).Scan(&minutes)
	return minutes, err
}

func (r *repoPG) AllByDay(ctx context.Context) (map[weektime.Day]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT day, SUM(minutes) FROM doctor_minutes GROUP BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[weektime.Day]int)
	for rows.Next() {
		var day, minutes int
		if err := rows.Scan(&day, &minutes); err != nil {
			return nil, err
		}
		result[weektime.Day(day)] = minutes
	}
	return result, rows.Err()
}

func (r *repoPG) List(ctx context.Context) ([]*DoctorMinutes, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doctor_id, day, minutes
		FROM doctor_minutes
		ORDER BY doctor_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*DoctorMinutes
	for rows.Next() {
		var dm DoctorMinutes
		var day int
		if err := rows.Scan(&dm.DoctorID, &day, &dm.Minutes); err != nil {
			return nil, err
		}
		dm.Day = weektime.Day(day)
		result = append(result, &dm)
	}
	return result, rows.Err()
}
