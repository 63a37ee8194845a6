package clinical

import "context"

// PrescriptionRepository persists prescriptions. Create writes the header
// and every line atomically.
type PrescriptionRepository interface {
	Create(ctx context.Context, rx *Prescription) error
	ListForPatient(ctx context.Context, patientID string) ([]*Prescription, error)
}

// AdministrationRepository persists dose events. There is no update or
// delete; history is the full insertion-ordered record list.
type AdministrationRepository interface {
	Add(ctx context.Context, admin *Administration) error
	ListForPatient(ctx context.Context, patientID string) ([]*Administration, error)
}
