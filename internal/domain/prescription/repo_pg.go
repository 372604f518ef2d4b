package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcab/medcab/internal/platform/db"
)

const pgUniqueViolation = "23505"

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

func (r *repoPG) LatestStockLevel(ctx context.Context, medID int64) (*int, error) {
	var level *int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT stock_level FROM user_medicine
		WHERE med_id = $1
		ORDER BY user_med_id DESC
		LIMIT 1`, medID).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return level, err
}

func (r *repoPG) LastPrescriptionID(ctx context.Context) (string, error) {
	var id string
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT prescription_id FROM prescription
		WHERE prescription_id ~ '^RX[0-9]{4}$'
		ORDER BY prescription_id DESC
		LIMIT 1`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (r *repoPG) InsertPrescription(ctx context.Context, rx *Prescription) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription (prescription_id, patient_id, med_id, pharmacy_id, doctor_id, prescription_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rx.ID, rx.PatientID, rx.MedID, rx.PharmacyID, rx.DoctorID, rx.PrescriptionDate)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("prescription %s: %w", rx.ID, ErrDuplicateID)
	}
	return err
}

func (r *repoPG) InsertUserMedication(ctx context.Context, um *UserMedication) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO user_medicine (user_id, med_id, stock_level, prescription_date,
			last_refill, next_refill, dosage, formula, timeline, period)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING user_med_id`,
		um.UserID, um.MedID, um.StockLevel, um.PrescriptionDate,
		um.LastRefill, um.NextRefill, um.Dosage, um.Formula, um.Timeline, um.Period,
	).Scan(&um.ID)
}

const userMedCols = `user_med_id, user_id, med_id, stock_level, prescription_date,
	last_refill, next_refill, dosage, formula, timeline, period`

func scanUserMed(row pgx.Row) (*UserMedication, error) {
	var um UserMedication
	err := row.Scan(&um.ID, &um.UserID, &um.MedID, &um.StockLevel, &um.PrescriptionDate,
		&um.LastRefill, &um.NextRefill, &um.Dosage, &um.Formula, &um.Timeline, &um.Period)
	return &um, err
}

func (r *repoPG) LockUserMedications(ctx context.Context, userID, medID int64) ([]*UserMedication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+userMedCols+` FROM user_medicine
		WHERE user_id = $1 AND med_id = $2
		ORDER BY user_med_id
		FOR UPDATE`, userID, medID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*UserMedication
	for rows.Next() {
		um, err := scanUserMed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, um)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateUserMedication(ctx context.Context, um *UserMedication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE user_medicine SET dosage=$2, formula=$3, timeline=$4, period=$5,
			prescription_date=$6, last_refill=$7, next_refill=$8
		WHERE user_med_id = $1`,
		um.ID, um.Dosage, um.Formula, um.Timeline, um.Period,
		um.PrescriptionDate, um.LastRefill, um.NextRefill)
	return err
}

func (r *repoPG) GetPrescriptionForUpdate(ctx context.Context, id string) (*Prescription, error) {
	var rx Prescription
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT prescription_id, patient_id, med_id, pharmacy_id, doctor_id, prescription_date
		FROM prescription WHERE prescription_id = $1
		FOR UPDATE`, id).
		Scan(&rx.ID, &rx.PatientID, &rx.MedID, &rx.PharmacyID, &rx.DoctorID, &rx.PrescriptionDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("prescription %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rx, nil
}

func (r *repoPG) DeleteUserMedications(ctx context.Context, userID, medID int64) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM user_medicine WHERE user_id = $1 AND med_id = $2`, userID, medID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) DeletePrescription(ctx context.Context, id string) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription WHERE prescription_id = $1`, id)
	return err
}

const patientViewCols = `user_med_id, patient_id, med_id, medicine_name, dosage, formula,
	timeline, period, stock_level, prescription_date, last_refill_date, next_refill_date,
	pharmacy_location, latitude, longitude`

func scanPatientView(row pgx.Row, extra ...interface{}) (*PatientMedication, error) {
	var m PatientMedication
	dest := []interface{}{&m.UserMedID, &m.PatientID, &m.MedID, &m.MedicineName, &m.Dosage, &m.Formula,
		&m.Timeline, &m.Period, &m.StockLevel, &m.PrescriptionDate, &m.LastRefillDate, &m.NextRefillDate,
		&m.PharmacyLocation, &m.Latitude, &m.Longitude}
	err := row.Scan(append(dest, extra...)...)
	return &m, err
}

func (r *repoPG) ListPatientView(ctx context.Context, patientID int64) ([]*PatientMedication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientViewCols+` FROM user_medication_view
		WHERE patient_id = $1
		ORDER BY user_med_id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*PatientMedication{}
	for rows.Next() {
		m, err := scanPatientView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) ListPhysicianView(ctx context.Context, patientID int64) ([]*PhysicianMedication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientViewCols+`, prescription_id, pharmacy_id, doctor_id
		FROM physician_medicine_view
		WHERE patient_id = $1
		ORDER BY prescription_date DESC, med_id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*PhysicianMedication{}
	for rows.Next() {
		var pm PhysicianMedication
		m, err := scanPatientView(rows, &pm.PrescriptionID, &pm.PharmacyID, &pm.DoctorID)
		if err != nil {
			return nil, err
		}
		pm.PatientMedication = *m
		items = append(items, &pm)
	}
	return items, rows.Err()
}
