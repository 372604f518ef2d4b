package prescription

import (
	"context"
)

// Repository is the store behind the prescription service. Write methods
// are expected to run inside the transaction carried by ctx.
type Repository interface {
	// LatestStockLevel returns the stock level of the most recently created
	// user_medicine row for the medicine, across all patients. Nil when no
	// row exists or its level is unset.
	LatestStockLevel(ctx context.Context, medID int64) (*int, error)
	// LastPrescriptionID returns the greatest RX + four digit id, or "".
	LastPrescriptionID(ctx context.Context) (string, error)
	// InsertPrescription returns an error wrapping ErrDuplicateID when the id is taken.
	InsertPrescription(ctx context.Context, rx *Prescription) error
	InsertUserMedication(ctx context.Context, um *UserMedication) error

	// LockUserMedications returns every row for the pair ordered by id, locked for update.
	LockUserMedications(ctx context.Context, userID, medID int64) ([]*UserMedication, error)
	UpdateUserMedication(ctx context.Context, um *UserMedication) error

	// GetPrescriptionForUpdate returns an error wrapping ErrNotFound when absent.
	GetPrescriptionForUpdate(ctx context.Context, id string) (*Prescription, error)
	DeleteUserMedications(ctx context.Context, userID, medID int64) (int64, error)
	DeletePrescription(ctx context.Context, id string) error

	ListPatientView(ctx context.Context, patientID int64) ([]*PatientMedication, error)
	ListPhysicianView(ctx context.Context, patientID int64) ([]*PhysicianMedication, error)
}
