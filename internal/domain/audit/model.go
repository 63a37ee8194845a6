// Package audit keeps the append-only trail of clinical and administrative
// actions. Entries are never updated or deleted.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry maps to the audit_entry table.
type Entry struct {
	ID      uuid.UUID `db:"id" json:"id"`
	At      time.Time `db:"at" json:"at"`
	StaffID string    `db:"staff_id" json:"staff_id"`
	Action  string    `db:"action" json:"action"`
	Detail  string    `db:"detail" json:"detail"`
}

// SystemActor is the staff id recorded for actions taken by the system
// itself, such as a successful compliance run.
const SystemActor = "system"
