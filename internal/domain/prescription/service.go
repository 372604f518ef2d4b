package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medcab/medcab/internal/platform/db"
)

const defaultAllocAttempts = 3

type Service struct {
	repo     Repository
	tx       db.TxManager
	now      func() time.Time
	attempts int
}

type Option func(*Service)

// WithAllocAttempts sets how many times a create is attempted when the
// allocated id collides with a concurrent create.
func WithAllocAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, tx db.TxManager, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		tx:       tx,
		now:      time.Now,
		attempts: defaultAllocAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePrescription inserts a prescription header and its user_medicine row
// in one transaction. A collision on the allocated id restarts the whole
// transaction; once attempts run out the create fails with ErrConflict.
func (s *Service) CreatePrescription(ctx context.Context, req *CreateRequest) (*Created, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date := req.PrescriptionDate.Or(s.now())

	for attempt := 1; ; attempt++ {
		var out *Created
		err := s.tx.WithTx(ctx, func(ctx context.Context) error {
			var err error
			out, err = s.create(ctx, req, date)
			return err
		})
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return nil, err
		}
		if attempt >= s.attempts {
			return nil, fmt.Errorf("%w after %d attempts: %v", ErrConflict, attempt, err)
		}
	}
}

func (s *Service) create(ctx context.Context, req *CreateRequest, date time.Time) (*Created, error) {
	medID := int64(req.MedID)

	level, err := s.repo.LatestStockLevel(ctx, medID)
	if err != nil {
		return nil, storeErr("read base stock level", err)
	}
	base := 0
	if level != nil {
		base = *level
	}

	last, err := s.repo.LastPrescriptionID(ctx)
	if err != nil {
		return nil, storeErr("read last prescription id", err)
	}
	id, err := NextID([]string{last})
	if err != nil {
		return nil, storeErr("allocate prescription id", err)
	}

	rx := &Prescription{
		ID:               id,
		PatientID:        int64(req.PatientID),
		MedID:            medID,
		PharmacyID:       int64(req.PharmacyID),
		DoctorID:         int64(req.DoctorID),
		PrescriptionDate: date,
	}
	if err := s.repo.InsertPrescription(ctx, rx); err != nil {
		return nil, storeErr("insert prescription", err)
	}

	um := &UserMedication{
		UserID:           rx.PatientID,
		MedID:            medID,
		StockLevel:       &base,
		PrescriptionDate: date,
		LastRefill:       req.LastRefillDate.Ptr(),
		NextRefill:       req.NextRefillDate.Ptr(),
		Dosage:           req.Dosage.Ptr(),
		Formula:          req.Formula.Ptr(),
		Timeline:         req.Timeline.Ptr(),
		Period:           req.Period.Ptr(),
	}
	if err := s.repo.InsertUserMedication(ctx, um); err != nil {
		return nil, storeErr("insert user medication", err)
	}
	return &Created{Prescription: rx, UserMedication: um}, nil
}

// EditMedication applies a partial update to the user_medicine rows of one
// patient and medicine. Every matching row is updated; the lowest id is
// returned.
func (s *Service) EditMedication(ctx context.Context, req *EditRequest) (*MedicationEdit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out *MedicationEdit
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		rows, err := s.repo.LockUserMedications(ctx, int64(req.UserID), req.MedID)
		if err != nil {
			return storeErr("lock user medication", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("user %d medicine %d: %w", req.UserID, req.MedID, ErrNotFound)
		}
		for _, um := range rows {
			req.Apply(um)
			if req.Empty() {
				continue
			}
			if err := s.repo.UpdateUserMedication(ctx, um); err != nil {
				return storeErr("update user medication", err)
			}
		}
		out = editOf(rows[0])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePrescription removes the prescription header and every user_medicine
// row for its patient and medicine.
func (s *Service) DeletePrescription(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &ValidationError{Msg: "Missing prescription id"}
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		rx, err := s.repo.GetPrescriptionForUpdate(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return err
		}
		if err != nil {
			return storeErr("read prescription", err)
		}
		if _, err := s.repo.DeleteUserMedications(ctx, rx.PatientID, rx.MedID); err != nil {
			return storeErr("delete user medication", err)
		}
		if err := s.repo.DeletePrescription(ctx, id); err != nil {
			return storeErr("delete prescription", err)
		}
		return nil
	})
}

func (s *Service) ListPatientMedications(ctx context.Context, patientID int64) ([]*PatientMedication, error) {
	items, err := s.repo.ListPatientView(ctx, patientID)
	if err != nil {
		return nil, storeErr("list patient medications", err)
	}
	return items, nil
}

func (s *Service) ListPhysicianMedications(ctx context.Context, patientID int64) ([]*PhysicianMedication, error) {
	items, err := s.repo.ListPhysicianView(ctx, patientID)
	if err != nil {
		return nil, storeErr("list physician medications", err)
	}
	return items, nil
}
