// Package explain computes additive attributions of a risk score across
// the input features: per-feature contributions plus a base value that sum
// approximately to the predicted probability. Explanation is always
// optional; every failure path yields nil rather than an error.
package explain

import (
	"github.com/rs/zerolog"

	"github.com/sepsiswatch/sepsiswatch/internal/ml/model"
)

// Strategy selects the attribution implementation. The choice is made once
// at construction from the loaded classifier kind.
type Strategy string

const (
	// StrategyLinear attributes via the classifier's own coefficients
	// against a reference point (the training feature means).
	StrategyLinear Strategy = "linear"
	// StrategyNone is the universal fallback: no explanation.
	StrategyNone Strategy = "none"
)

// Attribution decomposes a prediction into per-feature contributions.
// Features and ShapValues are parallel; BaseValue plus the sum of
// ShapValues approximates the predicted probability.
type Attribution struct {
	Features   []string  `json:"features"`
	ShapValues []float64 `json:"shap_values"`
	BaseValue  float64   `json:"base_value"`
}

// Explainer computes attributions for prepared feature rows. Read-only
// after construction, safe for concurrent use.
type Explainer struct {
	strategy  Strategy
	features  []string
	weights   []float64
	means     []float64
	intercept float64
	logger    zerolog.Logger
}

// New builds an explainer for the loaded model. When the model is degraded
// or its artifact carries no reference means, the strategy falls back to
// none and Explain always returns nil.
func New(m *model.Model, logger zerolog.Logger) *Explainer {
	art := m.Artifact()
	if art == nil || len(art.FeatureMeans) != len(m.Schema().Features) {
		if art != nil {
			logger.Error().Msg("classifier artifact carries no usable feature means, explanations disabled")
		}
		return &Explainer{strategy: StrategyNone, logger: logger}
	}
	return &Explainer{
		strategy:  StrategyLinear,
		features:  m.Schema().Features,
		weights:   art.Weights,
		means:     art.FeatureMeans,
		intercept: art.Intercept,
		logger:    logger,
	}
}

// Strategy returns the attribution strategy in use.
func (e *Explainer) Strategy() Strategy { return e.strategy }

// Explain attributes the probability for one prepared feature row. Returns
// nil when no strategy is available or the row does not fit the schema.
func (e *Explainer) Explain(row []float64) *Attribution {
	if e.strategy != StrategyLinear {
		return nil
	}
	if len(row) != len(e.weights) {
		e.logger.Error().
			Int("row", len(row)).
			Int("expected", len(e.weights)).
			Msg("feature row does not fit the explainer, skipping explanation")
		return nil
	}
	return e.explainLinear(row)
}

// explainLinear splits the probability shift away from the reference point
// across features in proportion to each feature's log-odds contribution
// w_j*(x_j - mean_j). The base value is the model output at the reference
// point, so base + sum(contributions) equals the predicted probability.
func (e *Explainer) explainLinear(row []float64) *Attribution {
	zBase := e.intercept
	for i, mean := range e.means {
		zBase += e.weights[i] * mean
	}
	base := model.Sigmoid(zBase)

	raw := make([]float64, len(row))
	var rawSum float64
	z := zBase
	for i := range row {
		raw[i] = e.weights[i] * (row[i] - e.means[i])
		rawSum += raw[i]
		z += raw[i]
	}
	probability := model.Sigmoid(z)

	values := make([]float64, len(row))
	if rawSum != 0 {
		scale := (probability - base) / rawSum
		for i := range raw {
			values[i] = raw[i] * scale
		}
	}

	features := make([]string, len(e.features))
	copy(features, e.features)
	return &Attribution{
		Features:   features,
		ShapValues: values,
		BaseValue:  base,
	}
}
