// Package feature turns a patient's time-ordered observations into the flat
// named feature vector consumed by the risk model: latest recorded values,
// short-horizon trends, and derived bedside scores.
package feature

import (
	"sort"
	"time"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/patient"
)

// TrendWindow is the trailing window, anchored at the most recent
// observation, inside which trend slopes are computed.
const TrendWindow = 24 * time.Hour

// Policy constants for the derived scores. These mirror the thresholds the
// deployed model was trained against; change only together with the model.
const (
	QSOFARespRateMin  = 22.0
	QSOFASystolicMax  = 100.0
	SIRSTempHigh      = 38.0
	SIRSTempLow       = 36.0
	SIRSHeartRateMin  = 90.0
	SIRSRespRateMin   = 20.0
	SIRSWBCHigh       = 12.0
	SIRSWBCLow        = 4.0
)

// trendFields are the clinical fields that get a "<field>_trend" feature.
var trendFields = []string{
	"heart_rate",
	"respiratory_rate",
	"temperature",
	"systolic_bp",
	"wbc_count",
	"lactate",
}

// Extract builds a feature vector from a patient's observations. The input
// order is irrelevant; observations are sorted internally. An empty input
// yields an empty vector — the caller treats that as data-unavailable, not
// as an error. Fields with no resolvable value are omitted, never zeroed.
func Extract(observations []*patient.Observation) map[string]float64 {
	features := make(map[string]float64)
	if len(observations) == 0 {
		return features
	}

	sorted := make([]*patient.Observation, len(observations))
	copy(sorted, observations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	// Latest values come from the single most recent observation only;
	// older observations are not used as fallback.
	mostRecent := sorted[0]
	for _, name := range patient.ClinicalFields {
		if v := mostRecent.Field(name); v != nil {
			features[name] = *v
		}
	}

	if len(sorted) > 1 {
		addTrends(features, sorted)
	}
	addDerived(features)

	return features
}

// addTrends computes the slope of each trend field over the trailing window.
// A field with fewer than two non-null readings in the window yields no
// trend feature.
func addTrends(features map[string]float64, sorted []*patient.Observation) {
	latest := sorted[0].Timestamp
	cutoff := latest.Add(-TrendWindow)

	var window []*patient.Observation
	for _, o := range sorted {
		if !o.Timestamp.Before(cutoff) {
			window = append(window, o)
		}
	}
	if len(window) < 2 {
		return
	}

	for _, name := range trendFields {
		var hours, values []float64
		for _, o := range window {
			if v := o.Field(name); v != nil {
				hours = append(hours, o.Timestamp.Sub(cutoff).Hours())
				values = append(values, *v)
			}
		}
		if len(values) < 2 {
			continue
		}
		features[name+"_trend"] = slope(hours, values)
	}
}

// slope returns the least-squares linear slope of values against x (hours).
// All x equal degenerates to 0, not a division failure.
func slope(x, values []float64) float64 {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		sumX += x[i]
		sumY += values[i]
		sumXY += x[i] * values[i]
		sumXX += x[i] * x[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// addDerived computes shock index, the partial qSOFA score, and the SIRS
// score from whichever latest values are present. Each input guard is
// independent; a missing input skips only the conditions that need it.
func addDerived(features map[string]float64) {
	hr, hasHR := features["heart_rate"]
	rr, hasRR := features["respiratory_rate"]
	temp, hasTemp := features["temperature"]
	sbp, hasSBP := features["systolic_bp"]
	wbc, hasWBC := features["wbc_count"]

	if hasHR && hasSBP && sbp > 0 {
		features["shock_index"] = hr / sbp
	}

	// Partial qSOFA: the mental-status component is out of this data
	// source's reach, so the score ranges 0-2.
	qsofa := 0.0
	if hasRR && rr >= QSOFARespRateMin {
		qsofa++
	}
	if hasSBP && sbp <= QSOFASystolicMax {
		qsofa++
	}
	features["qsofa_partial_score"] = qsofa

	sirs := 0.0
	if hasTemp && (temp > SIRSTempHigh || temp < SIRSTempLow) {
		sirs++
	}
	if hasHR && hr > SIRSHeartRateMin {
		sirs++
	}
	if hasRR && rr > SIRSRespRateMin {
		sirs++
	}
	if hasWBC && (wbc > SIRSWBCHigh || wbc < SIRSWBCLow) {
		sirs++
	}
	features["sirs_score"] = sirs
}
