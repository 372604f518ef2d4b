package patient

import "context"

type Repository interface {
	GetDoctor(ctx context.Context, patientID int64) (*Doctor, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*Summary, error)
	GetVitalsForUpdate(ctx context.Context, patientID int64) (*Vitals, error)
	UpdateVitals(ctx context.Context, v *Vitals) error
}
