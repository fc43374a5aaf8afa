package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Schema describes the ordered feature row the classifier expects, with a
// default value per feature and the decision threshold.
type Schema struct {
	Features      []string           `json:"features"`
	DefaultValues map[string]float64 `json:"default_values"`
	Threshold     float64            `json:"threshold"`
}

// ClassifierArtifact is the trained-classifier document loaded from disk.
// Weights and FeatureMeans are aligned with the schema's feature order.
type ClassifierArtifact struct {
	Kind         string    `json:"kind"`
	Version      string    `json:"version"`
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
	FeatureMeans []float64 `json:"feature_means"`
}

// LoadSchema reads and validates a feature schema document.
func LoadSchema(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature schema %s: %w", path, err)
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse feature schema %s: %w", path, err)
	}
	if len(s.Features) == 0 {
		return nil, fmt.Errorf("feature schema %s lists no features", path)
	}
	if s.Threshold <= 0 || s.Threshold >= 1 {
		return nil, fmt.Errorf("feature schema %s has invalid threshold %v", path, s.Threshold)
	}
	return &s, nil
}

// LoadClassifierArtifact reads and validates a classifier document against
// the schema it must score.
func LoadClassifierArtifact(path string, schema *Schema) (*ClassifierArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier artifact %s: %w", path, err)
	}
	var a ClassifierArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse classifier artifact %s: %w", path, err)
	}
	if a.Kind != string(KindLogistic) {
		return nil, fmt.Errorf("classifier artifact %s has unsupported kind %q", path, a.Kind)
	}
	if len(a.Weights) != len(schema.Features) {
		return nil, fmt.Errorf("classifier artifact %s has %d weights for %d schema features",
			path, len(a.Weights), len(schema.Features))
	}
	if len(a.FeatureMeans) != 0 && len(a.FeatureMeans) != len(schema.Features) {
		return nil, fmt.Errorf("classifier artifact %s has %d feature means for %d schema features",
			path, len(a.FeatureMeans), len(schema.Features))
	}
	return &a, nil
}

// DefaultSchema is the built-in fallback schema used when the configured
// schema document cannot be loaded.
func DefaultSchema() *Schema {
	return &Schema{
		Features: []string{
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
		},
		DefaultValues: map[string]float64{
			"heart_rate":        75.0,
			"respiratory_rate":  16.0,
			"temperature":       37.0,
			"systolic_bp":       120.0,
			"diastolic_bp":      80.0,
			"oxygen_saturation": 98.0,
			"blood_glucose":     100.0,
			"wbc_count":         7.0,
			"platelet_count":    250.0,
			"lactate":           1.0,
			"creatinine":        1.0,
			"bilirubin":         0.6,
		},
		Threshold: 0.5,
	}
}
