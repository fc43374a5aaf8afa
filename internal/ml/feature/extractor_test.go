package feature

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/patient"
)

func f64(v float64) *float64 { return &v }

func obsAt(ts time.Time) *patient.Observation {
	return &patient.Observation{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Timestamp: ts,
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	features := Extract(nil)
	if len(features) != 0 {
		t.Fatalf("expected empty feature vector, got %v", features)
	}
}

func TestExtract_SingleObservationDerivedScores(t *testing.T) {
	o := obsAt(time.Now())
	o.HeartRate = f64(130)
	o.SystolicBP = f64(80)
	o.RespiratoryRate = f64(24)
	o.Temperature = f64(39.2)
	o.WBCCount = f64(15)

	features := Extract([]*patient.Observation{o})

	if got := features["shock_index"]; math.Abs(got-1.625) > 1e-9 {
		t.Errorf("shock_index = %v, want 1.625", got)
	}
	if got := features["qsofa_partial_score"]; got != 2 {
		t.Errorf("qsofa_partial_score = %v, want 2", got)
	}
	// temp, HR, RR and WBC all trip their SIRS conditions here.
	if got := features["sirs_score"]; got != 4 {
		t.Errorf("sirs_score = %v, want 4", got)
	}
}

func TestExtract_ShockIndexRequiresPositiveSystolic(t *testing.T) {
	o := obsAt(time.Now())
	o.HeartRate = f64(110)
	features := Extract([]*patient.Observation{o})
	if _, ok := features["shock_index"]; ok {
		t.Error("shock_index present without systolic_bp")
	}

	o.SystolicBP = f64(0)
	features = Extract([]*patient.Observation{o})
	if _, ok := features["shock_index"]; ok {
		t.Error("shock_index present with systolic_bp = 0")
	}

	o.SystolicBP = f64(100)
	features = Extract([]*patient.Observation{o})
	if got := features["shock_index"]; math.Abs(got-1.1) > 1e-9 {
		t.Errorf("shock_index = %v, want 1.1", got)
	}
}

func TestExtract_SIRSMonotonic(t *testing.T) {
	base := obsAt(time.Now())
	prev := 0.0
	steps := []func(o *patient.Observation){
		func(o *patient.Observation) { o.Temperature = f64(39.0) },
		func(o *patient.Observation) { o.HeartRate = f64(95) },
		func(o *patient.Observation) { o.RespiratoryRate = f64(22) },
		func(o *patient.Observation) { o.WBCCount = f64(13) },
	}
	for i, step := range steps {
		step(base)
		features := Extract([]*patient.Observation{base})
		got := features["sirs_score"]
		if got < prev {
			t.Errorf("step %d: sirs_score decreased from %v to %v", i, prev, got)
		}
		if got < 0 || got > 4 {
			t.Errorf("step %d: sirs_score %v out of range", i, got)
		}
		prev = got
	}
	if prev != 4 {
		t.Errorf("final sirs_score = %v, want 4", prev)
	}
}

func TestExtract_LatestValuesFromMostRecentOnly(t *testing.T) {
	now := time.Now()
	older := obsAt(now.Add(-2 * time.Hour))
	older.HeartRate = f64(80)
	older.Lactate = f64(2.5)

	newer := obsAt(now)
	newer.HeartRate = f64(95)
	// Lactate not recorded in the most recent observation.

	features := Extract([]*patient.Observation{older, newer})
	if got := features["heart_rate"]; got != 95 {
		t.Errorf("heart_rate = %v, want 95", got)
	}
	if _, ok := features["lactate"]; ok {
		t.Error("lactate taken from an older observation; latest values must come from the most recent only")
	}
}

func TestExtract_TrendRequiresTwoReadingsInWindow(t *testing.T) {
	now := time.Now()

	// One reading now, one 30 hours back: outside the trailing window.
	old := obsAt(now.Add(-30 * time.Hour))
	old.HeartRate = f64(70)
	recent := obsAt(now)
	recent.HeartRate = f64(90)

	features := Extract([]*patient.Observation{old, recent})
	if _, ok := features["heart_rate_trend"]; ok {
		t.Error("heart_rate_trend present with only one reading inside the 24h window")
	}

	// Move the old reading inside the window: trend appears and is positive.
	old.Timestamp = now.Add(-10 * time.Hour)
	features = Extract([]*patient.Observation{old, recent})
	trend, ok := features["heart_rate_trend"]
	if !ok {
		t.Fatal("heart_rate_trend missing with two readings inside the window")
	}
	if trend <= 0 {
		t.Errorf("heart_rate_trend = %v, want > 0 for a rising heart rate", trend)
	}
	if math.Abs(trend-2.0) > 1e-9 {
		t.Errorf("heart_rate_trend = %v, want 2.0 (20 bpm over 10 hours)", trend)
	}
}

func TestExtract_TrendSkipsFieldsWithSparseReadings(t *testing.T) {
	now := time.Now()
	a := obsAt(now.Add(-4 * time.Hour))
	a.HeartRate = f64(80)
	a.Lactate = f64(1.5)
	b := obsAt(now)
	b.HeartRate = f64(85)
	// No second lactate reading.

	features := Extract([]*patient.Observation{a, b})
	if _, ok := features["heart_rate_trend"]; !ok {
		t.Error("heart_rate_trend missing")
	}
	if _, ok := features["lactate_trend"]; ok {
		t.Error("lactate_trend present with a single reading")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	now := time.Now()
	a := obsAt(now.Add(-6 * time.Hour))
	a.HeartRate = f64(88)
	a.Temperature = f64(38.4)
	b := obsAt(now)
	b.HeartRate = f64(102)
	b.Temperature = f64(39.0)
	b.SystolicBP = f64(95)

	in := []*patient.Observation{a, b}
	first := Extract(in)
	second := Extract(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent:\n first = %v\nsecond = %v", first, second)
	}

	// Input order must not matter either.
	reversed := Extract([]*patient.Observation{b, a})
	if !reflect.DeepEqual(first, reversed) {
		t.Errorf("extraction order-dependent:\n sorted = %v\nreversed = %v", first, reversed)
	}
}
