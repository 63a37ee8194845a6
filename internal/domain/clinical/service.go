package clinical

import (
	"context"
	"fmt"
	"sort"

	"github.com/carehome/carehome/internal/domain/audit"
	"github.com/carehome/carehome/internal/domain/directory"
	"github.com/carehome/carehome/internal/domain/patient"
	"github.com/carehome/carehome/internal/domain/ward"
	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/pkg/keymutex"
	"github.com/carehome/carehome/pkg/weektime"
)

// StaffDirectory resolves acting staff members to their roles.
type StaffDirectory interface {
	Lookup(ctx context.Context, id string) (*directory.Staff, error)
}

// PatientStore is the patient surface the workflow mutates.
type PatientStore interface {
	Add(ctx context.Context, id, name string, gender patient.Gender, isolation bool) (*patient.Patient, error)
	Get(ctx context.Context, id string) (*patient.Patient, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindOccupant(ctx context.Context, bedID string) (*patient.Patient, error)
	AssignBed(ctx context.Context, patientID, bedID string) error
	VacateBed(ctx context.Context, bedID string) error
}

// BedDirectory resolves and enumerates beds.
type BedDirectory interface {
	FindBed(ctx context.Context, id string) (*ward.Bed, error)
	ListBeds(ctx context.Context) ([]*ward.Bed, error)
}

// PlacementRules is the cohabitation and isolation gate.
type PlacementRules interface {
	CanPlace(ctx context.Context, candidate ward.Occupant, bed *ward.Bed) error
}

// DutyRoster answers on-duty queries for nurses.
type DutyRoster interface {
	OnDuty(ctx context.Context, nurseID string, day weektime.Day, t weektime.TimeOfDay) (bool, error)
}

// DoctorCoverage answers whether a day carries enough doctor minutes.
type DoctorCoverage interface {
	SufficientlyRostered(ctx context.Context, day weektime.Day) (bool, error)
}

type Service struct {
	staff     StaffDirectory
	patients  PatientStore
	beds      BedDirectory
	placement PlacementRules
	roster    DutyRoster
	coverage  DoctorCoverage
	rx        PrescriptionRepository
	admins    AdministrationRepository
	trail     audit.Recorder
	locks     *keymutex.KeyMutex
}

func NewService(
	staff StaffDirectory,
	patients PatientStore,
	beds BedDirectory,
	placement PlacementRules,
	dutyRoster DutyRoster,
	doctorCoverage DoctorCoverage,
	rx PrescriptionRepository,
	admins AdministrationRepository,
	trail audit.Recorder,
) *Service {
	return &Service{
		staff:     staff,
		patients:  patients,
		beds:      beds,
		placement: placement,
		roster:    dutyRoster,
		coverage:  doctorCoverage,
		rx:        rx,
		admins:    admins,
		trail:     trail,
		locks:     keymutex.New(),
	}
}

// requireRole resolves the acting staff member from the request context and
// checks the role. This is the single authorization entry for every
// workflow operation.
func (s *Service) requireRole(ctx context.Context, roles ...directory.Role) (*directory.Staff, error) {
	actorID := auth.StaffIDFromContext(ctx)
	if actorID == "" {
		return nil, fmt.Errorf("%w: no acting staff", ErrNotAuthorized)
	}
	actor, err := s.staff.Lookup(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown staff %s", ErrNotAuthorized, actorID)
	}
	for _, role := range roles {
		if actor.Role == role {
			return actor, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is a %s", ErrNotAuthorized, actorID, actor.Role)
}

func bedKey(bedID string) string {
	return "bed:" + bedID
}

// Admit places a new patient in a bed. Manager only. The patient id must be
// new, the bed vacant and the placement rules satisfied; nothing persists
// on rejection.
func (s *Service) Admit(ctx context.Context, patientID, name string, gender patient.Gender, isolation bool, bedID string) (*patient.Patient, error) {
	actor, err := s.requireRole(ctx, directory.RoleManager)
	if err != nil {
		return nil, err
	}

	bed, err := s.beds.FindBed(ctx, bedID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(bedKey(bed.ID))
	defer s.locks.Unlock(bedKey(bed.ID))

	exists, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, patient.ErrDuplicatePatient
	}

	candidate := ward.Occupant{PatientID: patientID, Gender: string(gender), Isolation: isolation}
	if err := s.placement.CanPlace(ctx, candidate, bed); err != nil {
		return nil, err
	}

	p, err := s.patients.Add(ctx, patientID, name, gender, isolation)
	if err != nil {
		return nil, err
	}
	if err := s.patients.AssignBed(ctx, patientID, bed.ID); err != nil {
		return nil, err
	}
	p.BedID = &bed.ID

	s.trail.Record(ctx, actor.ID, "admit patient",
		fmt.Sprintf("admitted %s to bed %s", patientID, bed.ID))
	return p, nil
}

// Transfer moves a bed's occupant to a vacant bed. Nurse only, and the
// nurse must be on duty at (day, t).
func (s *Service) Transfer(ctx context.Context, fromBedID, toBedID string, day weektime.Day, t weektime.TimeOfDay) error {
	actor, err := s.requireRole(ctx, directory.RoleNurse)
	if err != nil {
		return err
	}

	from, err := s.beds.FindBed(ctx, fromBedID)
	if err != nil {
		return err
	}
	to, err := s.beds.FindBed(ctx, toBedID)
	if err != nil {
		return err
	}

	// Both beds lock in sorted order so concurrent transfers cannot
	// deadlock.
	keys := []string{bedKey(from.ID), bedKey(to.ID)}
	sort.Strings(keys)
	for _, k := range keys {
		s.locks.Lock(k)
	}
	defer func() {
		for _, k := range keys {
			s.locks.Unlock(k)
		}
	}()

	onDuty, err := s.roster.OnDuty(ctx, actor.ID, day, t)
	if err != nil {
		return err
	}
	if !onDuty {
		return fmt.Errorf("%w: nurse %s not on duty at %s %s", ErrNotAuthorized, actor.ID, day, t)
	}

	occupant, err := s.patients.FindOccupant(ctx, from.ID)
	if err != nil {
		return err
	}
	if occupant == nil {
		return ward.ErrBedVacant
	}

	candidate := ward.Occupant{PatientID: occupant.ID, Gender: string(occupant.Gender), Isolation: occupant.Isolation}
	if err := s.placement.CanPlace(ctx, candidate, to); err != nil {
		return err
	}

	if err := s.patients.VacateBed(ctx, from.ID); err != nil {
		return err
	}
	if err := s.patients.AssignBed(ctx, occupant.ID, to.ID); err != nil {
		return err
	}

	s.trail.Record(ctx, actor.ID, "transfer patient",
		fmt.Sprintf("moved %s from %s to %s on %s %s", occupant.ID, from.ID, to.ID, day, t))
	return nil
}

// Discharge vacates an occupied bed. Manager only. The patient record
// stays; only its bed reference clears.
func (s *Service) Discharge(ctx context.Context, bedID string) error {
	actor, err := s.requireRole(ctx, directory.RoleManager)
	if err != nil {
		return err
	}

	bed, err := s.beds.FindBed(ctx, bedID)
	if err != nil {
		return err
	}

	s.locks.Lock(bedKey(bed.ID))
	defer s.locks.Unlock(bedKey(bed.ID))

	occupant, err := s.patients.FindOccupant(ctx, bed.ID)
	if err != nil {
		return err
	}
	if occupant == nil {
		return ward.ErrBedVacant
	}

	if err := s.patients.VacateBed(ctx, bed.ID); err != nil {
		return err
	}

	s.trail.Record(ctx, actor.ID, "discharge patient",
		fmt.Sprintf("discharged %s from bed %s", occupant.ID, bed.ID))
	return nil
}

// LineInput is one requested prescription line.
type LineInput struct {
	Medicine string `json:"medicine"`
	Dose     string `json:"dose"`
	Schedule string `json:"schedule"`
}

// Prescribe creates a prescription for the occupant of a bed. Doctor only,
// and the day must carry sufficient doctor coverage. The declared patient
// must be the bed's occupant.
func (s *Service) Prescribe(ctx context.Context, patientID, bedID string, day weektime.Day, lines []LineInput) (*Prescription, error) {
	actor, err := s.requireRole(ctx, directory.RoleDoctor)
	if err != nil {
		return nil, err
	}

	covered, err := s.coverage.SufficientlyRostered(ctx, day)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, fmt.Errorf("%w: doctor coverage below threshold on %s", ErrNotAuthorized, day)
	}

	bed, err := s.beds.FindBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	occupant, err := s.patients.FindOccupant(ctx, bed.ID)
	if err != nil {
		return nil, err
	}
	if occupant == nil {
		return nil, ward.ErrBedVacant
	}
	if occupant.ID != patientID {
		return nil, ErrPatientMismatch
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("prescription needs at least one line")
	}
	rx := &Prescription{PatientID: patientID, DoctorID: actor.ID, Day: day}
	for _, line := range lines {
		if line.Medicine == "" {
			return nil, fmt.Errorf("prescription line medicine is required")
		}
		rx.Lines = append(rx.Lines, Line{Medicine: line.Medicine, Dose: line.Dose, Schedule: line.Schedule})
	}

	if err := s.rx.Create(ctx, rx); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, actor.ID, "add prescription",
		fmt.Sprintf("prescription for %s on %s with %d lines", patientID, day, len(rx.Lines)))
	return rx, nil
}

// Administer records a dose given to a bed's occupant. Nurse only, on duty
// at (day, t).
func (s *Service) Administer(ctx context.Context, bedID string, day weektime.Day, t weektime.TimeOfDay, medicine, dose string) (*Administration, error) {
	actor, err := s.requireRole(ctx, directory.RoleNurse)
	if err != nil {
		return nil, err
	}

	bed, err := s.beds.FindBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	occupant, err := s.patients.FindOccupant(ctx, bed.ID)
	if err != nil {
		return nil, err
	}
	if occupant == nil {
		return nil, ward.ErrBedVacant
	}

	onDuty, err := s.roster.OnDuty(ctx, actor.ID, day, t)
	if err != nil {
		return nil, err
	}
	if !onDuty {
		return nil, fmt.Errorf("%w: nurse %s not on duty at %s %s", ErrNotAuthorized, actor.ID, day, t)
	}

	if medicine == "" {
		return nil, fmt.Errorf("medicine is required")
	}

	admin := &Administration{
		PatientID: occupant.ID,
		Medicine:  medicine,
		Dose:      dose,
		Day:       day,
		Time:      t,
		StaffID:   actor.ID,
	}
	if err := s.admins.Add(ctx, admin); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, actor.ID, "administer medication",
		fmt.Sprintf("%s %s to %s at %s %s", medicine, dose, occupant.ID, day, t))
	return admin, nil
}

// CorrectAdministration appends a correction record for a past dose. The
// actor must be a nurse on duty at (day, t) or a doctor with sufficient
// coverage on the day; the original record is never touched.
func (s *Service) CorrectAdministration(ctx context.Context, patientID string, day weektime.Day, t weektime.TimeOfDay, medicine, newDose string) (*Administration, error) {
	actor, err := s.requireRole(ctx, directory.RoleNurse, directory.RoleDoctor)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case directory.RoleNurse:
		onDuty, err := s.roster.OnDuty(ctx, actor.ID, day, t)
		if err != nil {
			return nil, err
		}
		if !onDuty {
			return nil, fmt.Errorf("%w: nurse %s not on duty at %s %s", ErrNotAuthorized, actor.ID, day, t)
		}
	case directory.RoleDoctor:
		covered, err := s.coverage.SufficientlyRostered(ctx, day)
		if err != nil {
			return nil, err
		}
		if !covered {
			return nil, fmt.Errorf("%w: doctor coverage below threshold on %s", ErrNotAuthorized, day)
		}
	}

	exists, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, patient.ErrPatientNotFound
	}

	admin := &Administration{
		PatientID:  patientID,
		Medicine:   medicine,
		Dose:       newDose,
		Day:        day,
		Time:       t,
		StaffID:    actor.ID,
		Correction: true,
	}
	if err := s.admins.Add(ctx, admin); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, actor.ID, "correct administration",
		fmt.Sprintf("%s for %s at %s %s corrected to %s", medicine, patientID, day, t, newDose))
	return admin, nil
}

// Occupant returns the patient in a bed. Doctors and nurses only.
func (s *Service) Occupant(ctx context.Context, bedID string) (*patient.Patient, error) {
	if _, err := s.requireRole(ctx, directory.RoleDoctor, directory.RoleNurse); err != nil {
		return nil, err
	}
	bed, err := s.beds.FindBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	occupant, err := s.patients.FindOccupant(ctx, bed.ID)
	if err != nil {
		return nil, err
	}
	if occupant == nil {
		return nil, ward.ErrBedVacant
	}
	return occupant, nil
}

// FirstVacantBed walks the layout in bed order and returns the first bed
// with no occupant.
func (s *Service) FirstVacantBed(ctx context.Context) (*ward.Bed, error) {
	beds, err := s.beds.ListBeds(ctx)
	if err != nil {
		return nil, err
	}
	for _, bed := range beds {
		occupant, err := s.patients.FindOccupant(ctx, bed.ID)
		if err != nil {
			return nil, err
		}
		if occupant == nil {
			return bed, nil
		}
	}
	return nil, ErrNoVacantBed
}

func (s *Service) Prescriptions(ctx context.Context, patientID string) ([]*Prescription, error) {
	return s.rx.ListForPatient(ctx, patientID)
}

func (s *Service) Administrations(ctx context.Context, patientID string) ([]*Administration, error) {
	return s.admins.ListForPatient(ctx, patientID)
}
