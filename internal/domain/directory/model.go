// Package directory owns staff identities and roles. It performs no
// authorization of its own; callers gate access before mutating.
package directory

import (
	"errors"
	"fmt"
	"time"
)

// Role discriminates staff members. Roles carry no extra per-member state.
type Role string

const (
	RoleManager Role = "manager"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleDoctor, RoleNurse:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// Staff maps to the staff table. ID and Role are immutable after
// registration; Name and the credential hash may change.
type Staff struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Role           Role      `db:"role" json:"role"`
	CredentialHash string    `db:"credential_hash" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

var (
	ErrDuplicateStaff = errors.New("staff id already registered")
	ErrStaffNotFound  = errors.New("staff not found")
	ErrBadCredentials = errors.New("invalid credentials")
)
