package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcab/medcab/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) GetDoctor(ctx context.Context, patientID int64) (*Doctor, error) {
	var d Doctor
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT d.doctor_id, d.doctor_name, d.doctor_specialty
		FROM users u
		JOIN physician d ON u.doctor_id = d.doctor_id
		WHERE u.patient_id = $1`, patientID).Scan(&d.ID, &d.Name, &d.Specialty)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("doctor of patient %d: %w", patientID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByDoctor returns patients assigned to the doctor or holding one of
// the doctor's prescriptions.
func (r *repoPG) ListByDoctor(ctx context.Context, doctorID int64) ([]*Summary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT u.patient_id, u.first_name, u.last_name, u.dob
		FROM users u
		WHERE u.doctor_id = $1
		   OR EXISTS (SELECT 1 FROM prescription p WHERE p.patient_id = u.patient_id AND p.doctor_id = $1)
		ORDER BY u.patient_id`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.DOB); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *repoPG) GetVitalsForUpdate(ctx context.Context, patientID int64) (*Vitals, error) {
	var v Vitals
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT patient_id, first_name, last_name, dob,
			blood_sugar::DOUBLE PRECISION, systolic, diastolic, weight::DOUBLE PRECISION
		FROM users WHERE patient_id = $1
		FOR UPDATE`, patientID).
		Scan(&v.ID, &v.FirstName, &v.LastName, &v.DOB, &v.BloodSugar, &v.Systolic, &v.Diastolic, &v.Weight)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("patient %d: %w", patientID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repoPG) UpdateVitals(ctx context.Context, v *Vitals) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET blood_sugar=$2, systolic=$3, diastolic=$4, weight=$5
		WHERE patient_id = $1`,
		v.ID, v.BloodSugar, v.Systolic, v.Diastolic, v.Weight)
	return err
}
