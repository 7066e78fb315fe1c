package evaluator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/li-xiaohui/classeval/internal/curve"
	"github.com/li-xiaohui/classeval/internal/domain"
)

func binaryTable() *domain.Table {
	return &domain.Table{Rows: []domain.PredictionRow{
		{Key: "a", TestOn: "2014Q1", Label: "1", Score: 0.9},
		{Key: "b", TestOn: "2014Q1", Label: "0", Score: 0.4},
		{Key: "c", TestOn: "2014Q1", Label: "1", Score: 0.35},
		{Key: "d", TestOn: "2014Q2", Label: "1", Score: 0.8},
		{Key: "e", TestOn: "2014Q2", Label: "0", Score: 0.2},
		{Key: "f", TestOn: "2014Q3", Label: "0", Score: 0.3},
		{Key: "g", TestOn: "2014Q3", Label: "0", Score: 0.6},
	}}
}

func TestBinaryEvaluate(t *testing.T) {
	report, err := NewBinary("1").Evaluate(binaryTable())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	wantQuarters := []string{"2014Q1", "2014Q2", "2014Q3"}
	if !reflect.DeepEqual(report.Quarters, wantQuarters) {
		t.Fatalf("quarters = %v, want %v", report.Quarters, wantQuarters)
	}

	// Accuracy covers every quarter; ROC/F only those with both classes.
	if len(report.AccuracyCurves) != 3 {
		t.Errorf("accuracy curves = %d, want 3", len(report.AccuracyCurves))
	}
	if len(report.ROCCurves) != 2 {
		t.Errorf("roc curves = %d, want 2", len(report.ROCCurves))
	}
	if len(report.FScoreCurves) != 2 {
		t.Errorf("f-score curves = %d, want 2", len(report.FScoreCurves))
	}
	if len(report.Summaries) != 2 {
		t.Errorf("summaries = %d, want 2", len(report.Summaries))
	}
	if !reflect.DeepEqual(report.SkippedQuarters, []string{"2014Q3"}) {
		t.Errorf("skipped quarters = %v, want [2014Q3]", report.SkippedQuarters)
	}

	for _, c := range report.ROCCurves {
		if c.Quarter == "2014Q3" {
			t.Errorf("degenerate quarter leaked into ROC curves")
		}
	}

	// 2014Q2 separates perfectly.
	for _, s := range report.Summaries {
		if s.Quarter == "2014Q2" && float64(s.AUC) != 1.0 {
			t.Errorf("2014Q2 AUC = %v, want 1.0", s.AUC)
		}
	}
}

func TestBinaryEvaluateCombinedUnaffectedBySkips(t *testing.T) {
	table := binaryTable()
	report, err := NewBinary("1").Evaluate(table)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	scores := make([]float64, len(table.Rows))
	labels := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		scores[i] = row.Score
		labels[i] = row.Label
	}
	wantAUC, err := curve.AUC(scores, labels, "1")
	if err != nil {
		t.Fatalf("pooled AUC: %v", err)
	}
	if float64(report.Combined.Summary.AUC) != wantAUC {
		t.Errorf("combined AUC = %v, want %v (pooled over all rows incl. skipped quarter)", report.Combined.Summary.AUC, wantAUC)
	}
	if report.Combined.Summary.Quarter != "combined" {
		t.Errorf("combined summary quarter tag = %q", report.Combined.Summary.Quarter)
	}
	if len(report.Combined.PrecisionRecall.Points) == 0 || len(report.Combined.SensSpec.Points) == 0 {
		t.Errorf("combined report is missing precision-recall or sensitivity-specificity curves")
	}
}

func TestBinaryEvaluateSkipIsolation(t *testing.T) {
	full, err := NewBinary("1").Evaluate(binaryTable())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	trimmed := binaryTable()
	trimmed.Rows = trimmed.Rows[:5] // drop the degenerate 2014Q3 rows
	partial, err := NewBinary("1").Evaluate(trimmed)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	// Excluding the degenerate quarter must not change any other quarter.
	if !reflect.DeepEqual(full.ROCCurves, partial.ROCCurves) {
		t.Errorf("ROC curves changed when the degenerate quarter was removed")
	}
	if !reflect.DeepEqual(full.Summaries, partial.Summaries) {
		t.Errorf("summaries changed when the degenerate quarter was removed")
	}
}

func TestBinaryEvaluateSingleClassTableFails(t *testing.T) {
	table := &domain.Table{Rows: []domain.PredictionRow{
		{Key: "a", TestOn: "q1", Label: "0", Score: 0.4},
		{Key: "b", TestOn: "q2", Label: "0", Score: 0.6},
	}}

	_, err := NewBinary("1").Evaluate(table)
	var degenerate *domain.DegenerateInputError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError, got %v", err)
	}
}

func TestBinaryEvaluateSchemaFailure(t *testing.T) {
	table := &domain.Table{Rows: []domain.PredictionRow{
		{Key: "", TestOn: "q1", Label: "1", Score: 0.4},
	}}

	_, err := NewBinary("1").Evaluate(table)
	var schema *domain.SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
