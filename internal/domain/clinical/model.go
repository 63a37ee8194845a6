// Package clinical orchestrates admissions, transfers, prescribing and
// medication administration. Every operation authorizes the acting staff
// member, checks live roster and coverage state, checks resource
// invariants, mutates, then audits.
package clinical

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/carehome/carehome/pkg/weektime"
)

// Prescription maps to the prescription table. It is immutable once
// created; dose corrections are new administration records.
type Prescription struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	PatientID string       `db:"patient_id" json:"patient_id"`
	DoctorID  string       `db:"doctor_id" json:"doctor_id"`
	Day       weektime.Day `db:"day" json:"day"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	Lines     []Line       `json:"lines"`
}

// Line maps to the prescription_line table, kept in written order.
type Line struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Medicine string    `db:"medicine" json:"medicine"`
	Dose     string    `db:"dose" json:"dose"`
	Schedule string    `db:"schedule" json:"schedule"`
}

// Administration maps to the administration table. Records are append
// only; a correction is a fresh record with Correction set.
type Administration struct {
	ID         uuid.UUID          `db:"id" json:"id"`
	PatientID  string             `db:"patient_id" json:"patient_id"`
	Medicine   string             `db:"medicine" json:"medicine"`
	Dose       string             `db:"dose" json:"dose"`
	Day        weektime.Day       `db:"day" json:"day"`
	Time       weektime.TimeOfDay `db:"time_min" json:"time"`
	StaffID    string             `db:"staff_id" json:"staff_id"`
	Correction bool               `db:"correction" json:"correction"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
}

var (
	ErrNotAuthorized   = errors.New("not authorized")
	ErrPatientMismatch = errors.New("prescription patient does not match bed occupant")
	ErrNoVacantBed     = errors.New("no vacant bed available")
)
