package prescription

import (
	"time"
)

// Prescription maps to the prescription table: one row per prescribing event.
type Prescription struct {
	ID               string    `db:"prescription_id" json:"prescription_id"`
	PatientID        int64     `db:"patient_id" json:"patient_id"`
	MedID            int64     `db:"med_id" json:"med_id"`
	PharmacyID       int64     `db:"pharmacy_id" json:"pharmacy_id"`
	DoctorID         int64     `db:"doctor_id" json:"doctor_id"`
	PrescriptionDate time.Time `db:"prescription_date" json:"prescription_date"`
}

// UserMedication maps to the user_medicine table, the patient-specific and
// editable record of a prescribed medicine.
type UserMedication struct {
	ID               int64      `db:"user_med_id" json:"user_med_id"`
	UserID           int64      `db:"user_id" json:"user_id"`
	MedID            int64      `db:"med_id" json:"med_id"`
	StockLevel       *int       `db:"stock_level" json:"stock_level"`
	PrescriptionDate time.Time  `db:"prescription_date" json:"prescription_date"`
	LastRefill       *time.Time `db:"last_refill" json:"last_refill"`
	NextRefill       *time.Time `db:"next_refill" json:"next_refill"`
	Dosage           *float64   `db:"dosage" json:"dosage"`
	Formula          *string    `db:"formula" json:"formula"`
	Timeline         *string    `db:"timeline" json:"timeline"`
	Period           *string    `db:"period" json:"period"`
}

// Created is the result of a successful create.
type Created struct {
	Prescription   *Prescription   `json:"prescription"`
	UserMedication *UserMedication `json:"user_medication"`
}

// CreateRequest is the body of POST /prescriptions. The stock level of the
// new row is derived from the store, never taken from the caller.
type CreateRequest struct {
	PatientID        Ref                 `json:"patient_id"`
	DoctorID         Ref                 `json:"doctor_id"`
	MedID            Ref                 `json:"med_id"`
	PharmacyID       Ref                 `json:"pharmacy_id"`
	PrescriptionDate Optional[time.Time] `json:"prescription_date"`
	LastRefillDate   Optional[time.Time] `json:"last_refill_date"`
	NextRefillDate   Optional[time.Time] `json:"next_refill_date"`
	Dosage           Optional[float64]   `json:"dosage"`
	Formula          Optional[string]    `json:"formula"`
	Timeline         Optional[string]    `json:"timeline"`
	Period           Optional[string]    `json:"period"`
}

func (r *CreateRequest) Validate() error {
	var missing []string
	for _, f := range []struct {
		name string
		ref  Ref
	}{
		{"patient_id", r.PatientID},
		{"doctor_id", r.DoctorID},
		{"med_id", r.MedID},
		{"pharmacy_id", r.PharmacyID},
	} {
		if f.ref == 0 {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Msg: "Missing required fields", Fields: missing}
	}
	return nil
}

// EditRequest is a partial update of every user_medicine row for one
// (patient, medicine) pair. Patient and medicine identity never change.
type EditRequest struct {
	UserID           Ref                 `json:"user_id"`
	MedID            int64               `json:"-"`
	Dosage           Optional[float64]   `json:"dosage"`
	Formula          Optional[string]    `json:"formula"`
	Timeline         Optional[string]    `json:"timeline"`
	Period           Optional[string]    `json:"period"`
	PrescriptionDate Optional[time.Time] `json:"prescription_date"`
	LastRefill       Optional[time.Time] `json:"last_refill"`
	NextRefill       Optional[time.Time] `json:"next_refill"`
}

func (r *EditRequest) Validate() error {
	if r.UserID == 0 || r.MedID <= 0 {
		return &ValidationError{Msg: "Missing user_id or medId"}
	}
	return nil
}

// Empty reports whether the request would leave every field unchanged.
func (r *EditRequest) Empty() bool {
	return !r.Dosage.Set && !r.Formula.Set && !r.Timeline.Set && !r.Period.Set &&
		!r.PrescriptionDate.Set && !r.LastRefill.Set && !r.NextRefill.Set
}

// Apply merges the set fields into um.
func (r *EditRequest) Apply(um *UserMedication) {
	um.Dosage = r.Dosage.Merge(um.Dosage)
	um.Formula = r.Formula.Merge(um.Formula)
	um.Timeline = r.Timeline.Merge(um.Timeline)
	um.Period = r.Period.Merge(um.Period)
	um.PrescriptionDate = r.PrescriptionDate.Or(um.PrescriptionDate)
	um.LastRefill = r.LastRefill.Merge(um.LastRefill)
	um.NextRefill = r.NextRefill.Merge(um.NextRefill)
}

// MedicationEdit is the response to an edit: the mutable fields plus ids.
type MedicationEdit struct {
	Dosage           *float64   `json:"dosage"`
	Formula          *string    `json:"formula"`
	Timeline         *string    `json:"timeline"`
	Period           *string    `json:"period"`
	PrescriptionDate time.Time  `json:"prescription_date"`
	LastRefill       *time.Time `json:"last_refill"`
	NextRefill       *time.Time `json:"next_refill"`
	MedID            int64      `json:"med_id"`
	UserID           int64      `json:"user_id"`
}

func editOf(um *UserMedication) *MedicationEdit {
	return &MedicationEdit{
		Dosage:           um.Dosage,
		Formula:          um.Formula,
		Timeline:         um.Timeline,
		Period:           um.Period,
		PrescriptionDate: um.PrescriptionDate,
		LastRefill:       um.LastRefill,
		NextRefill:       um.NextRefill,
		MedID:            um.MedID,
		UserID:           um.UserID,
	}
}

// PatientMedication is a row of user_medication_view, the read-only list a
// patient sees.
type PatientMedication struct {
	UserMedID        int64      `db:"user_med_id" json:"user_med_id"`
	PatientID        int64      `db:"patient_id" json:"patient_id"`
	MedID            int64      `db:"med_id" json:"med_id"`
	MedicineName     *string    `db:"medicine_name" json:"medicine_name"`
	Dosage           *float64   `db:"dosage" json:"dosage"`
	Formula          *string    `db:"formula" json:"formula"`
	Timeline         *string    `db:"timeline" json:"timeline"`
	Period           *string    `db:"period" json:"period"`
	StockLevel       *int       `db:"stock_level" json:"stock_level"`
	PrescriptionDate time.Time  `db:"prescription_date" json:"prescription_date"`
	LastRefillDate   *time.Time `db:"last_refill_date" json:"last_refill_date"`
	NextRefillDate   *time.Time `db:"next_refill_date" json:"next_refill_date"`
	PharmacyLocation *string    `db:"pharmacy_location" json:"pharmacy_location"`
	Latitude         *float64   `db:"latitude" json:"latitude"`
	Longitude        *float64   `db:"longitude" json:"longitude"`
}

// PhysicianMedication is a row of physician_medicine_view. It adds the
// prescription header fields a physician needs to edit or delete.
type PhysicianMedication struct {
	PatientMedication
	PrescriptionID *string `db:"prescription_id" json:"prescription_id"`
	PharmacyID     *int64  `db:"pharmacy_id" json:"pharmacy_id"`
	DoctorID       *int64  `db:"doctor_id" json:"doctor_id"`
}
