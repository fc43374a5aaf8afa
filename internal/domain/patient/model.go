package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	MRN         *string    `db:"mrn" json:"mrn,omitempty"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	PhoneNumber *string    `db:"phone_number" json:"phone_number,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns "First Last" with missing parts dropped.
func (p *Patient) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Observation maps to the observation table: one timestamped set of vitals
// and lab values for a patient. Every clinical field is nullable; an
// observation records only what was actually measured.
type Observation struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	Timestamp        time.Time `db:"timestamp" json:"timestamp"`
	HeartRate        *float64  `db:"heart_rate" json:"heart_rate,omitempty"`
	RespiratoryRate  *float64  `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	Temperature      *float64  `db:"temperature" json:"temperature,omitempty"`
	SystolicBP       *float64  `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *float64  `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	OxygenSaturation *float64  `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	BloodGlucose     *float64  `db:"blood_glucose" json:"blood_glucose,omitempty"`
	WBCCount         *float64  `db:"wbc_count" json:"wbc_count,omitempty"`
	PlateletCount    *float64  `db:"platelet_count" json:"platelet_count,omitempty"`
	Lactate          *float64  `db:"lactate" json:"lactate,omitempty"`
	Creatinine       *float64  `db:"creatinine" json:"creatinine,omitempty"`
	Bilirubin        *float64  `db:"bilirubin" json:"bilirubin,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ClinicalFields enumerates the observation's clinical field names in a
// stable order. Keys match the column and feature names used throughout
// the pipeline.
var ClinicalFields = []string{
	"heart_rate",
	"respiratory_rate",
	"temperature",
	"systolic_bp",
	"diastolic_bp",
	"oxygen_saturation",
	"blood_glucose",
	"wbc_count",
	"platelet_count",
	"lactate",
	"creatinine",
	"bilirubin",
}

// Field returns the named clinical value, or nil when it was not recorded.
func (o *Observation) Field(name string) *float64 {
	switch name {
	case "heart_rate":
		return o.HeartRate
	case "respiratory_rate":
		return o.RespiratoryRate
	case "temperature":
		return o.Temperature
	case "systolic_bp":
		return o.SystolicBP
	case "diastolic_bp":
		return o.DiastolicBP
	case "oxygen_saturation":
		return o.OxygenSaturation
	case "blood_glucose":
		return o.BloodGlucose
	case "wbc_count":
		return o.WBCCount
	case "platelet_count":
		return o.PlateletCount
	case "lactate":
		return o.Lactate
	case "creatinine":
		return o.Creatinine
	case "bilirubin":
		return o.Bilirubin
	}
	return nil
}
