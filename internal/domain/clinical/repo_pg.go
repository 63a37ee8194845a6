package clinical

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehome/carehome/pkg/weektime"
)

type rxRepoPG struct {
	pool *pgxpool.Pool
}

func NewPrescriptionRepo(pool *pgxpool.Pool) PrescriptionRepository {
	return &rxRepoPG{pool: pool}
}

func (r *rxRepoPG) Create(ctx context.Context, rx *Prescription) error {
	rx.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO prescription (id, patient_id, doctor_id, day)
		VALUES ($1, $2, $3, $4)`,
		rx.ID, rx.PatientID, rx.DoctorID, int(rx.Day),
	)
	if err != nil {
		return err
	}

	for i := range rx.Lines {
		rx.Lines[i].ID = uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO prescription_line (id, prescription_id, position, medicine, dose, schedule)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rx.Lines[i].ID, rx.ID, i, rx.Lines[i].Medicine, rx.Lines[i].Dose, rx.Lines[i].Schedule,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing prescription: %w", err)
	}
	return nil
}

func (r *rxRepoPG) ListForPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, day, created_at
		FROM prescription
		WHERE patient_id = $1
		ORDER BY created_at, id`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Prescription
	byID := make(map[uuid.UUID]*Prescription)
	for rows.Next() {
		var rx Prescription
		var day int
		if err := rows.Scan(&rx.ID, &rx.PatientID, &rx.DoctorID, &day, &rx.CreatedAt); err != nil {
			return nil, err
		}
		rx.Day = weektime.Day(day)
		result = append(result, &rx)
		byID[rx.ID] = &rx
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT l.id, l.prescription_id, l.medicine, l.dose, l.schedule
		FROM prescription_line l
		JOIN prescription p ON p.id = l.prescription_id
		WHERE p.patient_id = $1
		ORDER BY l.prescription_id, l.position`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var line Line
		var rxID uuid.UUID
		if err := lineRows.Scan(&line.ID, &rxID, &line.Medicine, &line.Dose, &line.Schedule); err != nil {
			return nil, err
		}
		if rx, ok := byID[rxID]; ok {
			rx.Lines = append(rx.Lines, line)
		}
	}
	return result, lineRows.Err()
}

type adminRepoPG struct {
	pool *pgxpool.Pool
}

func NewAdministrationRepo(pool *pgxpool.Pool) AdministrationRepository {
	return &adminRepoPG{pool: pool}
}

func (r *adminRepoPG) Add(ctx context.Context, admin *Administration) error {
	admin.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO administration (id, patient_id, medicine, dose, day, time_min, staff_id, correction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		admin.ID, admin.PatientID, admin.Medicine, admin.Dose,
		int(admin.Day), int(admin.Time), admin.StaffID, admin.Correction,
	)
	return err
}

func (r *adminRepoPG) ListForPatient(ctx context.Context, patientID string) ([]*Administration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, medicine, dose, day, time_min, staff_id, correction, created_at
		FROM administration
		WHERE patient_id = $1
		ORDER BY created_at, id`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Administration
	for rows.Next() {
		var a Administration
		var day, timeMin int
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Medicine, &a.Dose, &day, &timeMin,
			&a.StaffID, &a.Correction, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Day = weektime.Day(day)
		a.Time = weektime.TimeOfDay(timeMin)
		result = append(result, &a)
	}
	return result, rows.Err()
}
