package alert

import (
	"fmt"
	"math"
	"sort"

	"github.com/sepsiswatch/sepsiswatch/internal/ml/explain"
)

// ClassifySeverity maps a risk probability onto the 1-5 severity scale
// and its matching alert type.
func ClassifySeverity(probability float64) (int, string) {
	switch {
	case probability >= 0.8:
		return 5, TypeCritical
	case probability >= 0.6:
		return 4, TypeHigh
	case probability >= 0.5:
		return 3, TypeMedium
	case probability >= 0.3:
		return 2, TypeLow
	default:
		return 1, TypeMinimal
	}
}

// RenderMessage builds the clinician-facing alert text. Risk-flagged
// predictions get the urgent wording, everything else the monitoring one.
func RenderMessage(probability float64, isSepsisRisk bool, patientName string) string {
	pct := fmt.Sprintf("%.1f%%", probability*100)
	if isSepsisRisk {
		if patientName != "" {
			return fmt.Sprintf("SEPSIS ALERT: Patient %s has a %s probability of developing sepsis. Immediate assessment recommended.", patientName, pct)
		}
		return fmt.Sprintf("SEPSIS ALERT: Patient has a %s probability of developing sepsis. Immediate assessment recommended.", pct)
	}
	if patientName != "" {
		return fmt.Sprintf("Patient %s has a %s probability of developing sepsis. Regular monitoring advised.", patientName, pct)
	}
	return fmt.Sprintf("Patient has a %s probability of developing sepsis. Regular monitoring advised.", pct)
}

// RankRiskFactors orders attribution entries by absolute impact, descending.
// Features without a value in featuresUsed are skipped; contribution
// percentages are relative to the total absolute impact of the full
// attribution, so skipped entries still count toward the denominator.
// The attribution's Features and ShapValues must be parallel; a malformed
// attribution panics and is caught by Synthesize.
func RankRiskFactors(attribution *explain.Attribution, featuresUsed map[string]float64) []RiskFactor {
	if attribution == nil {
		return nil
	}

	var totalImpact float64
	for _, v := range attribution.ShapValues {
		totalImpact += math.Abs(v)
	}

	type pair struct {
		name   string
		impact float64
	}
	pairs := make([]pair, len(attribution.Features))
	for i, name := range attribution.Features {
		pairs[i] = pair{name: name, impact: attribution.ShapValues[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].impact) > math.Abs(pairs[j].impact)
	})

	var factors []RiskFactor
	for _, p := range pairs {
		value, ok := featuresUsed[p.name]
		if !ok {
			continue
		}
		impactType := ImpactProtective
		if p.impact > 0 {
			impactType = ImpactRiskFactor
		}
		var pct float64
		if totalImpact > 0 {
			pct = math.Abs(p.impact) / totalImpact * 100
		}
		factors = append(factors, RiskFactor{
			FeatureName:     p.name,
			Value:           value,
			Impact:          p.impact,
			ImpactType:      impactType,
			ContributionPct: pct,
		})
	}
	return factors
}

// Synthesize produces the full alert content for a prediction. A failure
// anywhere during synthesis, such as a malformed attribution, degrades to
// the system error content so the caller always gets an alert body.
func Synthesize(probability float64, isSepsisRisk bool, patientName string, featuresUsed map[string]float64, attribution *explain.Attribution) (d Details) {
	defer func() {
		if r := recover(); r != nil {
			d = SystemErrorDetails()
		}
	}()
	severity, alertType := ClassifySeverity(probability)
	return Details{
		AlertType:    alertType,
		Severity:     severity,
		Message:      RenderMessage(probability, isSepsisRisk, patientName),
		IsSepsisRisk: isSepsisRisk,
		Probability:  probability,
		RiskFactors:  RankRiskFactors(attribution, featuresUsed),
	}
}

// SystemErrorDetails is the fixed content used when assessment fails
// and a manual check is required.
func SystemErrorDetails() Details {
	return Details{
		AlertType:   TypeSystemError,
		Severity:    3,
		Message:     "Error generating sepsis risk assessment. Please check the patient data manually.",
		RiskFactors: []RiskFactor{},
	}
}
