package prediction

import (
	"time"

	"github.com/google/uuid"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/patient"
	"github.com/sepsiswatch/sepsiswatch/internal/ml/explain"
)

type Prediction struct {
	ID           uuid.UUID            `db:"id" json:"id"`
	PatientID    uuid.UUID            `db:"patient_id" json:"patient_id"`
	UserID       *uuid.UUID           `db:"user_id" json:"user_id,omitempty"`
	Probability  float64              `db:"probability" json:"probability"`
	IsSepsisRisk bool                 `db:"is_sepsis_risk" json:"is_sepsis_risk"`
	FeaturesUsed map[string]float64   `db:"features_used" json:"features_used"`
	ModelVersion string               `db:"model_version" json:"model_version"`
	Explanation  *explain.Attribution `db:"explanation" json:"explanation"`
	Timestamp    time.Time            `db:"timestamp" json:"timestamp"`
}

// Result is the bundle returned for a single pipeline run.
type Result struct {
	PredictionID uuid.UUID        `json:"prediction_id"`
	Patient      *patient.Patient `json:"patient"`
	Prediction   *Prediction      `json:"prediction"`
	Timestamp    time.Time        `json:"timestamp"`
}

type BatchSuccess struct {
	PatientID    uuid.UUID `json:"patient_id"`
	PredictionID uuid.UUID `json:"prediction_id"`
	IsSepsisRisk bool      `json:"is_sepsis_risk"`
	Probability  float64   `json:"probability"`
}

type BatchFailure struct {
	PatientID uuid.UUID `json:"patient_id"`
	Error     string    `json:"error"`
}

// BatchResult aggregates a multi-patient run. One patient's failure
// never stops the batch.
type BatchResult struct {
	Successful   []BatchSuccess `json:"successful"`
	Failed       []BatchFailure `json:"failed"`
	Total        int            `json:"total"`
	SuccessCount int            `json:"success_count"`
	FailureCount int            `json:"failure_count"`
}
