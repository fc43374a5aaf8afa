package alert

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending      = "pending"
	StatusAcknowledged = "acknowledged"
	StatusActionTaken  = "action_taken"
	StatusDismissed    = "dismissed"
)

const (
	TypeCritical    = "CRITICAL_SEPSIS_RISK"
	TypeHigh        = "HIGH_SEPSIS_RISK"
	TypeMedium      = "MEDIUM_SEPSIS_RISK"
	TypeLow         = "LOW_SEPSIS_RISK"
	TypeMinimal     = "MINIMAL_RISK"
	TypeSystemError = "SYSTEM_ERROR"
)

type Alert struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	PredictionID   uuid.UUID  `db:"prediction_id" json:"prediction_id"`
	AlertType      string     `db:"alert_type" json:"alert_type"`
	Severity       int        `db:"severity" json:"severity"`
	Status         string     `db:"status" json:"status"`
	Message        string     `db:"message" json:"message"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	AcknowledgedBy *uuid.UUID `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
}

// RiskFactor is one ranked contributor to a risk score. It is derived
// from the prediction explanation at alert time and not persisted.
type RiskFactor struct {
	FeatureName     string  `json:"feature_name"`
	Value           float64 `json:"value"`
	Impact          float64 `json:"impact"`
	ImpactType      string  `json:"impact_type"`
	ContributionPct float64 `json:"contribution_pct"`
}

const (
	ImpactRiskFactor = "risk_factor"
	ImpactProtective = "protective_factor"
)

// Details is the synthesized alert content before persistence.
type Details struct {
	AlertType    string       `json:"alert_type"`
	Severity     int          `json:"severity"`
	Message      string       `json:"message"`
	IsSepsisRisk bool         `json:"is_sepsis_risk"`
	Probability  float64      `json:"probability"`
	RiskFactors  []RiskFactor `json:"risk_factors"`
}
