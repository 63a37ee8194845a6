package roster

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehome/carehome/pkg/weektime"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Add(ctx context.Context, shift *Shift) error {
	shift.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO nurse_shift (id, nurse_id, day, start_min, end_min)
		VALUES ($1, $2, $3, $4, $5)`,
		shift.ID, shift.NurseID, int(shift.Day), int(shift.Start), int(shift.End),
	)
	return err
}

func (r *repoPG) Remove(ctx context.Context, nurseID string, day weektime.Day, start, end weektime.TimeOfDay) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM nurse_shift
		WHERE nurse_id = $1 AND day = $2 AND start_min = $3 AND end_min = $4`,
		nurseID, int(day), int(start), int(end),
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) ListForNurse(ctx context.Context, nurseID string) ([]*Shift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nurse_id, day, start_min, end_min
		FROM nurse_shift
		WHERE nurse_id = $1
		ORDER BY day, start_min`,
		nurseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*Shift
	for rows.Next() {
		var s Shift
		var day, start, end int
		if err := rows.Scan(&s.ID, &s.NurseID, &day, &start, &end); err != nil {
			return nil, err
		}
		s.Day = weektime.Day(day)
		s.Start = weektime.TimeOfDay(start)
		s.End = weektime.TimeOfDay(end)
		shifts = append(shifts, &s)
	}
	return shifts, rows.Err()
}

func (r *repoPG) HoursOn(ctx context.Context, nurseID string, day weektime.Day) (int, error) {
	var minutes int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(end_min - start_min), 0)
		FROM nurse_shift
		WHERE nurse_id = $1 AND day = $2`,
		nurseID, int(day),
	).Scan(&minutes)
	return minutes / 60, err
}

func (r *repoPG) HasShiftCovering(ctx context.Context, nurseID string, day weektime.Day, t weektime.TimeOfDay) (bool, error) {
	var covered bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM nurse_shift
			WHERE nurse_id = $1 AND day = $2 AND start_min <= $3 AND $3 < end_min
		)`,
		nurseID, int(day), int(t),
	).Scan(&covered)
	return covered, err
}

func (r *repoPG) SlotCovered(ctx context.Context, day weektime.Day, start, end weektime.TimeOfDay) (bool, error) {
	var covered bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM nurse_shift
			WHERE day = $1 AND start_min = $2 AND end_min = $3
		)`,
		int(day), int(start), int(end),
	).Scan(&covered)
	return covered, err
}

func (r *repoPG) HoursByNurseDay(ctx context.Context) ([]NurseDayHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT nurse_id, day, SUM(end_min - start_min) / 60
		FROM nurse_shift
		GROUP BY nurse_id, day
		ORDER BY nurse_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []NurseDayHours
	for rows.Next() {
		var entry NurseDayHours
		var day int
		if err := rows.Scan(&entry.NurseID, &day, &entry.Hours); err != nil {
			return nil, err
		}
		entry.Day = weektime.Day(day)
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, nurseID string, day weektime.Day, start, end weektime.TimeOfDay) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM nurse_shift
			WHERE nurse_id = $1 AND day = $2 AND start_min = $3 AND end_min = $4
		)`,
		nurseID, int(day), int(start), int(end),
	).Scan(&exists)
	return exists, err
}
