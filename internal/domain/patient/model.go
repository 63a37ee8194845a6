// Package patient owns resident records and their bed references.
package patient

import (
	"errors"
	"fmt"
	"time"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.Valid() {
		return "", fmt.Errorf("invalid gender %q", s)
	}
	return g, nil
}

// Patient maps to the patient table. BedID is nil while the patient is not
// placed; a patient occupies at most one bed at a time.
type Patient struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Gender    Gender    `db:"gender" json:"gender"`
	Isolation bool      `db:"isolation" json:"isolation"`
	BedID     *string   `db:"bed_id" json:"bed_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

var (
	ErrDuplicatePatient = errors.New("patient id already exists")
	ErrPatientNotFound  = errors.New("patient not found")
)
