package alert

import (
	"math"
	"strings"
	"testing"

	"github.com/sepsiswatch/sepsiswatch/internal/ml/explain"
)

func TestClassifySeverityBoundaries(t *testing.T) {
	cases := []struct {
		probability float64
		severity    int
		alertType   string
	}{
		{0.95, 5, TypeCritical},
		{0.8, 5, TypeCritical},
		{0.79999, 4, TypeHigh},
		{0.6, 4, TypeHigh},
		{0.59999, 3, TypeMedium},
		{0.5, 3, TypeMedium},
		{0.49999, 2, TypeLow},
		{0.3, 2, TypeLow},
		{0.29999, 1, TypeMinimal},
		{0.0, 1, TypeMinimal},
	}
	for _, c := range cases {
		sev, typ := ClassifySeverity(c.probability)
		if sev != c.severity || typ != c.alertType {
			t.Errorf("ClassifySeverity(%v) = (%d, %s), want (%d, %s)",
				c.probability, sev, typ, c.severity, c.alertType)
		}
	}
}

func TestRenderMessage(t *testing.T) {
	msg := RenderMessage(0.85, true, "Jane Doe")
	if msg != "SEPSIS ALERT: Patient Jane Doe has a 85.0% probability of developing sepsis. Immediate assessment recommended." {
		t.Errorf("unexpected message: %q", msg)
	}

	msg = RenderMessage(0.85, true, "")
	if !strings.HasPrefix(msg, "SEPSIS ALERT: Patient has a 85.0%") {
		t.Errorf("unexpected nameless message: %q", msg)
	}

	msg = RenderMessage(0.2, false, "Jane Doe")
	if strings.Contains(msg, "SEPSIS ALERT") {
		t.Errorf("low risk message should not be an alert: %q", msg)
	}
	if !strings.Contains(msg, "Regular monitoring advised.") {
		t.Errorf("low risk message missing monitoring advice: %q", msg)
	}
}

func TestRankRiskFactorsOrderingAndContribution(t *testing.T) {
	attr := &explain.Attribution{
		Features:   []string{"heart_rate", "lactate", "temperature"},
		ShapValues: []float64{0.1, -0.3, 0.2},
	}
	used := map[string]float64{"heart_rate": 130, "lactate": 4.2, "temperature": 39.0}

	factors := RankRiskFactors(attr, used)
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(factors))
	}
	if factors[0].FeatureName != "lactate" || factors[1].FeatureName != "temperature" || factors[2].FeatureName != "heart_rate" {
		t.Errorf("wrong ordering: %s, %s, %s",
			factors[0].FeatureName, factors[1].FeatureName, factors[2].FeatureName)
	}
	if factors[0].ImpactType != ImpactProtective {
		t.Errorf("negative impact should be protective, got %s", factors[0].ImpactType)
	}
	if factors[1].ImpactType != ImpactRiskFactor {
		t.Errorf("positive impact should be risk_factor, got %s", factors[1].ImpactType)
	}

	var pctSum float64
	for _, f := range factors {
		pctSum += f.ContributionPct
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("contribution percentages sum to %v, want 100", pctSum)
	}
	if math.Abs(factors[0].ContributionPct-50) > 1e-9 {
		t.Errorf("lactate contribution = %v, want 50", factors[0].ContributionPct)
	}
}

func TestRankRiskFactorsSkipsMissingValues(t *testing.T) {
	attr := &explain.Attribution{
		Features:   []string{"heart_rate", "lactate"},
		ShapValues: []float64{0.2, 0.2},
	}
	used := map[string]float64{"heart_rate": 130}

	factors := RankRiskFactors(attr, used)
	if len(factors) != 1 {
		t.Fatalf("expected 1 factor, got %d", len(factors))
	}
	// The skipped feature still counts toward the denominator.
	if math.Abs(factors[0].ContributionPct-50) > 1e-9 {
		t.Errorf("contribution = %v, want 50", factors[0].ContributionPct)
	}
}

func TestRankRiskFactorsZeroTotalImpact(t *testing.T) {
	attr := &explain.Attribution{
		Features:   []string{"heart_rate"},
		ShapValues: []float64{0},
	}
	factors := RankRiskFactors(attr, map[string]float64{"heart_rate": 75})
	if len(factors) != 1 {
		t.Fatalf("expected 1 factor, got %d", len(factors))
	}
	if factors[0].ContributionPct != 0 {
		t.Errorf("contribution = %v, want 0", factors[0].ContributionPct)
	}
}

func TestRankRiskFactorsNilAttribution(t *testing.T) {
	if got := RankRiskFactors(nil, map[string]float64{"heart_rate": 75}); got != nil {
		t.Errorf("expected nil factors, got %v", got)
	}
}

func TestSynthesizeHighRisk(t *testing.T) {
	attr := &explain.Attribution{
		Features:   []string{"heart_rate", "lactate"},
		ShapValues: []float64{0.1, 0.4},
	}
	used := map[string]float64{"heart_rate": 130, "lactate": 4.2}

	d := Synthesize(0.85, true, "Jane Doe", used, attr)
	if d.Severity != 5 || d.AlertType != TypeCritical {
		t.Errorf("got severity %d type %s", d.Severity, d.AlertType)
	}
	if !strings.Contains(d.Message, "85.0%") {
		t.Errorf("message missing probability: %q", d.Message)
	}
	if len(d.RiskFactors) == 0 || d.RiskFactors[0].FeatureName != "lactate" {
		t.Errorf("top factor should have the largest absolute impact, got %+v", d.RiskFactors)
	}
}

func TestSynthesizeMalformedAttributionFallsBack(t *testing.T) {
	attr := &explain.Attribution{
		Features:   []string{"heart_rate", "lactate", "temperature"},
		ShapValues: []float64{0.1},
	}
	used := map[string]float64{"heart_rate": 130}

	d := Synthesize(0.85, true, "Jane Doe", used, attr)
	if d.AlertType != TypeSystemError || d.Severity != 3 {
		t.Errorf("expected system error content, got type %s severity %d", d.AlertType, d.Severity)
	}
	if d.Probability != 0 || d.IsSepsisRisk {
		t.Errorf("fallback must not carry the risk assessment")
	}
	if len(d.RiskFactors) != 0 {
		t.Errorf("fallback factors must be empty, got %v", d.RiskFactors)
	}
}

func TestSystemErrorDetails(t *testing.T) {
	d := SystemErrorDetails()
	if d.AlertType != TypeSystemError || d.Severity != 3 {
		t.Errorf("got type %s severity %d", d.AlertType, d.Severity)
	}
	if d.Probability != 0 || d.IsSepsisRisk {
		t.Errorf("system error must not carry a risk flag")
	}
	if d.RiskFactors == nil || len(d.RiskFactors) != 0 {
		t.Errorf("system error factors must be empty, got %v", d.RiskFactors)
	}
	if !strings.Contains(d.Message, "check the patient data manually") {
		t.Errorf("unexpected message: %q", d.Message)
	}
}
