package patient

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrNoVitals means a vitals update carried no field to change.
	ErrNoVitals = errors.New("no vitals to update")
)

// Doctor maps to the physician table.
type Doctor struct {
	ID        int64   `db:"doctor_id" json:"doctor_id"`
	Name      string  `db:"doctor_name" json:"doctor_name"`
	Specialty *string `db:"doctor_specialty" json:"doctor_specialty"`
}

// Summary is the identifying part of a users row.
type Summary struct {
	ID        int64      `db:"patient_id" json:"patient_id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	DOB       *time.Time `db:"dob" json:"dob"`
}

// Vitals is a patient with the measurements a physician records.
type Vitals struct {
	Summary
	BloodSugar *float64 `db:"blood_sugar" json:"blood_sugar"`
	Systolic   *int     `db:"systolic" json:"systolic"`
	Diastolic  *int     `db:"diastolic" json:"diastolic"`
	Weight     *float64 `db:"weight" json:"weight"`
}

// VitalsUpdate is a partial update. Absent or null fields are kept.
type VitalsUpdate struct {
	BloodSugar *float64 `json:"blood_sugar"`
	Systolic   *int     `json:"systolic"`
	Diastolic  *int     `json:"diastolic"`
	Weight     *float64 `json:"weight"`
}

func (u *VitalsUpdate) Empty() bool {
	return u.BloodSugar == nil && u.Systolic == nil && u.Diastolic == nil && u.Weight == nil
}

func (u *VitalsUpdate) Apply(v *Vitals) {
	if u.BloodSugar != nil {
		v.BloodSugar = u.BloodSugar
	}
	if u.Systolic != nil {
		v.Systolic = u.Systolic
	}
	if u.Diastolic != nil {
		v.Diastolic = u.Diastolic
	}
	if u.Weight != nil {
		v.Weight = u.Weight
	}
}
