package curve

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/li-xiaohui/classeval/internal/domain"
)

const tol = 1e-12

var (
	scenarioScores = []float64{0.2, 0.9, 0.4, 0.6}
	scenarioLabels = []string{"0", "1", "1", "0"}
)

func TestComputeAccuracyCurve(t *testing.T) {
	c, err := Compute(scenarioScores, scenarioLabels, "1", domain.MetricAccuracy)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if len(c.Points) != 5 {
		t.Fatalf("expected 5 points (sentinel + 4 distinct scores), got %d", len(c.Points))
	}
	if !math.IsInf(float64(c.Points[0].Cutoff), 1) {
		t.Errorf("first cutoff should be +Inf, got %v", c.Points[0].Cutoff)
	}

	wantCutoffs := []float64{math.Inf(1), 0.9, 0.6, 0.4, 0.2}
	wantValues := []float64{0.5, 0.75, 0.5, 0.75, 0.5}
	for i, p := range c.Points {
		if float64(p.Cutoff) != wantCutoffs[i] {
			t.Errorf("point %d: cutoff = %v, want %v", i, p.Cutoff, wantCutoffs[i])
		}
		if !scalar.EqualWithinAbs(float64(p.Y), wantValues[i], tol) {
			t.Errorf("point %d: accuracy = %v, want %v", i, p.Y, wantValues[i])
		}
	}
}

func TestComputeCutoffsStrictlyDescending(t *testing.T) {
	scores := []float64{0.3, 0.3, 0.7, 0.1, 0.7, 0.5}
	labels := []string{"0", "1", "1", "0", "0", "1"}

	c, err := Compute(scores, labels, "1", domain.MetricROC)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	for i := 1; i < len(c.Points); i++ {
		if !(c.Points[i].Cutoff < c.Points[i-1].Cutoff) {
			t.Fatalf("cutoffs not strictly descending at %d: %v >= %v", i, c.Points[i].Cutoff, c.Points[i-1].Cutoff)
		}
	}
	last := float64(c.Points[len(c.Points)-1].Cutoff)
	if last != 0.1 {
		t.Errorf("curve should end at the minimum observed score, got %v", last)
	}
	if float64(c.Points[1].Cutoff) != 0.7 {
		t.Errorf("first finite cutoff should be the maximum observed score, got %v", c.Points[1].Cutoff)
	}
}

func TestComputeFScoreCurveOmitsUndefinedPoints(t *testing.T) {
	c, err := Compute(scenarioScores, scenarioLabels, "1", domain.MetricFScore)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	// The +Inf sentinel has no predicted positives, so precision and F are
	// undefined there and the point is dropped.
	if len(c.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(c.Points))
	}
	if float64(c.Points[0].Cutoff) != 0.9 {
		t.Errorf("first F point should be at the max score, got %v", c.Points[0].Cutoff)
	}
	wantF := []float64{2.0 / 3.0, 0.5, 0.8, 2.0 / 3.0}
	for i, p := range c.Points {
		if !scalar.EqualWithinAbs(float64(p.Y), wantF[i], tol) {
			t.Errorf("point %d: f-score = %v, want %v", i, p.Y, wantF[i])
		}
	}
}

func TestComputeDegenerateInput(t *testing.T) {
	scores := []float64{0.2, 0.4, 0.9}
	labels := []string{"1", "1", "1"}

	for _, kind := range []domain.MetricKind{domain.MetricROC, domain.MetricFScore, domain.MetricPrecisionRecall, domain.MetricSensSpec} {
		_, err := Compute(scores, labels, "1", kind)
		var degenerate *domain.DegenerateInputError
		if !errors.As(err, &degenerate) {
			t.Errorf("%s: expected DegenerateInputError, got %v", kind, err)
		}
	}

	// Accuracy stays defined for single-class input.
	c, err := Compute(scores, labels, "1", domain.MetricAccuracy)
	if err != nil {
		t.Fatalf("accuracy on single-class input: %v", err)
	}
	last := c.Points[len(c.Points)-1]
	if float64(last.Y) != 1.0 {
		t.Errorf("accuracy at min cutoff should be 1.0, got %v", last.Y)
	}
}

func TestAUCScenario(t *testing.T) {
	auc, err := AUC(scenarioScores, scenarioLabels, "1")
	if err != nil {
		t.Fatalf("AUC returned error: %v", err)
	}
	if !scalar.EqualWithinAbs(auc, 0.75, tol) {
		t.Errorf("AUC = %v, want 0.75", auc)
	}
}

func TestAUCPerfectSeparator(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.2, 0.1}
	labels := []string{"1", "1", "0", "0"}

	auc, err := AUC(scores, labels, "1")
	if err != nil {
		t.Fatalf("AUC returned error: %v", err)
	}
	if auc != 1.0 {
		t.Errorf("AUC = %v, want exactly 1.0", auc)
	}
}

func TestAUCConstantScorer(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.5, 0.5}
	labels := []string{"1", "0", "1", "0"}

	auc, err := AUC(scores, labels, "1")
	if err != nil {
		t.Fatalf("AUC returned error: %v", err)
	}
	if !scalar.EqualWithinAbs(auc, 0.5, tol) {
		t.Errorf("AUC = %v, want 0.5 for a constant scorer on a balanced set", auc)
	}
}

func TestAUCBounds(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		labels []string
	}{
		{"inverted", []float64{0.1, 0.2, 0.8, 0.9}, []string{"1", "1", "0", "0"}},
		{"mixed", []float64{0.3, 0.6, 0.2, 0.9, 0.5}, []string{"0", "1", "1", "0", "1"}},
	}
	for _, tc := range cases {
		auc, err := AUC(tc.scores, tc.labels, "1")
		if err != nil {
			t.Fatalf("%s: AUC returned error: %v", tc.name, err)
		}
		if auc < 0 || auc > 1 {
			t.Errorf("%s: AUC = %v, want value in [0,1]", tc.name, auc)
		}
	}
}

func TestMaxFirstOccurrenceTieBreak(t *testing.T) {
	acc, err := Compute(scenarioScores, scenarioLabels, "1", domain.MetricAccuracy)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	best := Max(acc)
	if float64(best.Y) != 0.75 {
		t.Errorf("max accuracy = %v, want 0.75", best.Y)
	}
	// 0.75 occurs at cutoffs 0.9 and 0.4; the higher cutoff wins.
	if float64(best.Cutoff) != 0.9 {
		t.Errorf("max accuracy cutoff = %v, want 0.9 (first occurrence)", best.Cutoff)
	}
}

func TestMaxIdempotent(t *testing.T) {
	f, err := Compute(scenarioScores, scenarioLabels, "1", domain.MetricFScore)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	first := Max(f)
	second := Max(f)
	if first != second {
		t.Errorf("Max is not idempotent: %+v vs %+v", first, second)
	}
	if !scalar.EqualWithinAbs(float64(first.Y), 0.8, tol) || float64(first.Cutoff) != 0.4 {
		t.Errorf("max f-score = (%v, %v), want (0.4, 0.8)", first.Cutoff, first.Y)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	_, err := Compute(nil, nil, "1", domain.MetricAccuracy)
	var schema *domain.SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaError for empty input, got %v", err)
	}
}
