// Package model holds the trained sepsis classifier, its feature schema,
// and the decision threshold. Construction never fails: missing or corrupt
// artifacts degrade to a deterministic low-risk stub so the pipeline always
// produces a probability.
package model

import (
	"github.com/rs/zerolog"
)

// FallbackVersion marks predictions made by the degraded stub model.
const FallbackVersion = "fallback-0"

// SafeDefaultProbability is returned when prediction itself fails. The
// policy is fail-safe-low: downstream clinical review cadence catches false
// negatives, while false alarms carry an operational cost.
const SafeDefaultProbability = 0.1

// Config points at the model artifacts on disk.
type Config struct {
	ClassifierPath string
	SchemaPath     string
}

// Result is the outcome of scoring one feature vector.
type Result struct {
	Probability  float64            `json:"probability"`
	IsSepsisRisk bool               `json:"is_sepsis_risk"`
	FeaturesUsed map[string]float64 `json:"features_used"`
	ModelVersion string             `json:"model_version"`
}

// Model is safe for concurrent use after Load: all fields are read-only
// once constructed.
type Model struct {
	classifier Classifier
	schema     *Schema
	artifact   *ClassifierArtifact
	version    string
	degraded   bool
	logger     zerolog.Logger
}

// Load builds a Model from the configured artifacts. Any load failure is
// logged at error level and substituted with the documented fallback: the
// stub classifier, the built-in default schema, and threshold 0.5.
func Load(cfg Config, logger zerolog.Logger) *Model {
	m := &Model{logger: logger}

	schema, err := LoadSchema(cfg.SchemaPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.SchemaPath).Msg("feature schema unavailable, using built-in defaults")
		schema = DefaultSchema()
		m.degraded = true
	}
	m.schema = schema

	artifact, err := LoadClassifierArtifact(cfg.ClassifierPath, schema)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.ClassifierPath).Msg("classifier unavailable, using low-risk stub")
		m.classifier = StubClassifier{}
		m.version = FallbackVersion
		m.degraded = true
		return m
	}

	m.artifact = artifact
	m.classifier = &LogisticClassifier{Weights: artifact.Weights, Intercept: artifact.Intercept}
	m.version = artifact.Version
	if m.version == "" {
		m.version = "1.0.0"
	}
	return m
}

// Degraded reports whether any artifact failed to load.
func (m *Model) Degraded() bool { return m.degraded }

// Version returns the model version stamped onto predictions.
func (m *Model) Version() string { return m.version }

// Schema returns the feature schema in use.
func (m *Model) Schema() *Schema { return m.schema }

// Artifact returns the loaded classifier document, or nil when degraded.
// The explainer is constructed from the same artifact so attribution and
// prediction always agree on weights.
func (m *Model) Artifact() *ClassifierArtifact { return m.artifact }

// Prepare assembles the ordered feature row for the schema: the vector's
// value when present, the schema default otherwise. Features in the vector
// that the schema does not know are ignored.
func (m *Model) Prepare(features map[string]float64) ([]float64, map[string]float64) {
	row := make([]float64, len(m.schema.Features))
	used := make(map[string]float64, len(m.schema.Features))
	for i, name := range m.schema.Features {
		v, ok := features[name]
		if !ok {
			v = m.schema.DefaultValues[name]
		}
		row[i] = v
		used[name] = v
	}
	return row, used
}

// Predict scores a feature vector. Internal failure degrades to the safe
// low-risk default rather than propagating.
func (m *Model) Predict(features map[string]float64) Result {
	row, used := m.Prepare(features)

	probability, err := m.classifier.PredictProba(row)
	if err != nil {
		m.logger.Error().Err(err).Msg("prediction failed, returning safe low-risk default")
		return Result{
			Probability:  SafeDefaultProbability,
			IsSepsisRisk: false,
			FeaturesUsed: map[string]float64{},
			ModelVersion: m.version,
		}
	}

	return Result{
		Probability:  probability,
		IsSepsisRisk: probability >= m.schema.Threshold,
		FeaturesUsed: used,
		ModelVersion: m.version,
	}
}
