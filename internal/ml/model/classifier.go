package model

import (
	"fmt"
	"math"
)

// ClassifierKind selects the classifier implementation. The choice is made
// once when artifacts are loaded, never by runtime type inspection.
type ClassifierKind string

const (
	KindLogistic ClassifierKind = "logistic"
	KindStub     ClassifierKind = "stub"
)

// Classifier scores one prepared feature row and returns the probability
// of the positive (sepsis) class.
type Classifier interface {
	PredictProba(row []float64) (float64, error)
	Kind() ClassifierKind
}

// LogisticClassifier is a logistic-regression classifier whose weights are
// aligned with the schema's feature order.
type LogisticClassifier struct {
	Weights   []float64
	Intercept float64
}

func (c *LogisticClassifier) Kind() ClassifierKind { return KindLogistic }

func (c *LogisticClassifier) PredictProba(row []float64) (float64, error) {
	if len(row) != len(c.Weights) {
		return 0, fmt.Errorf("feature row has %d values, classifier expects %d", len(row), len(c.Weights))
	}
	z := c.Intercept
	for i, w := range c.Weights {
		z += w * row[i]
	}
	return Sigmoid(z), nil
}

// Sigmoid maps a log-odds value into (0, 1).
func Sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// StubClassifier is the deterministic fallback used when no trained
// classifier could be loaded. It always reports a biased-low probability
// so a degraded system never raises alerts on its own.
type StubClassifier struct{}

// StubProbability is the fixed probability the fallback classifier reports.
const StubProbability = 0.15

func (StubClassifier) Kind() ClassifierKind { return KindStub }

func (StubClassifier) PredictProba(_ []float64) (float64, error) {
	return StubProbability, nil
}
