package patient

import (
	"context"
	"fmt"

	"github.com/medcab/medcab/internal/platform/db"
)

type Service struct {
	repo Repository
	tx   db.TxManager
}

func NewService(repo Repository, tx db.TxManager) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) GetDoctor(ctx context.Context, patientID int64) (*Doctor, error) {
	return s.repo.GetDoctor(ctx, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]*Summary, error) {
	items, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list patients of doctor %d: %w", doctorID, err)
	}
	return items, nil
}

// UpdateVitals merges the given measurements into the patient row and
// returns the result.
func (s *Service) UpdateVitals(ctx context.Context, patientID int64, u *VitalsUpdate) (*Vitals, error) {
	if u.Empty() {
		return nil, ErrNoVitals
	}

	var out *Vitals
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		v, err := s.repo.GetVitalsForUpdate(ctx, patientID)
		if err != nil {
			return err
		}
		u.Apply(v)
		if err := s.repo.UpdateVitals(ctx, v); err != nil {
			return fmt.Errorf("update vitals of patient %d: %w", patientID, err)
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
