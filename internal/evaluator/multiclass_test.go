package evaluator

import (
	"reflect"
	"testing"

	"github.com/li-xiaohui/classeval/internal/domain"
)

func multiclassTable() *domain.Table {
	return &domain.Table{
		Classes: []string{"H", "M", "L"},
		Rows: []domain.PredictionRow{
			{Key: "a", TestOn: "q1", Label: "H", Scores: map[string]float64{"H": 0.8, "M": 0.1, "L": 0.1}},
			{Key: "b", TestOn: "q1", Label: "M", Scores: map[string]float64{"H": 0.2, "M": 0.7, "L": 0.1}},
			{Key: "c", TestOn: "q1", Label: "M", Scores: map[string]float64{"H": 0.6, "M": 0.3, "L": 0.1}},
			{Key: "d", TestOn: "q1", Label: "H", Scores: map[string]float64{"H": 0.3, "M": 0.6, "L": 0.1}},
			{Key: "e", TestOn: "q2", Label: "H", Scores: map[string]float64{"H": 0.9, "M": 0.05, "L": 0.05}},
			{Key: "f", TestOn: "q2", Label: "H", Scores: map[string]float64{"H": 0.7, "M": 0.2, "L": 0.1}},
		},
	}
}

func TestMulticlassEvaluate(t *testing.T) {
	report, err := NewMulticlass([]string{"H", "M", "L"}).Evaluate(multiclassTable())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if !reflect.DeepEqual(report.Quarters, []string{"q1", "q2"}) {
		t.Fatalf("quarters = %v", report.Quarters)
	}

	// L never occurs, so its one-vs-rest relabeling is single-class and the
	// class is skipped rather than zero-filled.
	if !reflect.DeepEqual(report.SkippedClasses, []string{"L"}) {
		t.Errorf("skipped classes = %v, want [L]", report.SkippedClasses)
	}
	if _, ok := report.PerClass["L"]; ok {
		t.Errorf("skipped class L still present in per-class results")
	}
	for _, class := range []string{"H", "M"} {
		sub, ok := report.PerClass[class]
		if !ok {
			t.Fatalf("missing per-class report for %s", class)
		}
		if sub.Class != class || sub.PositiveLabel != class {
			t.Errorf("per-class report for %s mistagged: class=%q positive=%q", class, sub.Class, sub.PositiveLabel)
		}
		for _, c := range sub.ROCCurves {
			if c.Class != class {
				t.Errorf("curve for %s tagged %q", class, c.Class)
			}
		}
		if sub.Combined.Summary.Class != class {
			t.Errorf("combined summary for %s tagged %q", class, sub.Combined.Summary.Class)
		}
	}
}

func TestMulticlassQuarterAUC(t *testing.T) {
	report, err := NewMulticlass([]string{"H", "M", "L"}).Evaluate(multiclassTable())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	q1 := report.QuarterAUC["q1"]
	if !q1.Defined() {
		t.Fatalf("q1 macro AUC should be defined")
	}
	if q1 < 0 || q1 > 1 {
		t.Errorf("q1 macro AUC = %v, want value in [0,1]", q1)
	}

	// q2 holds only H rows: every one-vs-rest relabeling is single-class
	// there, so the macro average has no contributors and reports NaN.
	if report.QuarterAUC["q2"].Defined() {
		t.Errorf("q2 macro AUC = %v, want NaN", report.QuarterAUC["q2"])
	}

	if !report.OverallAUC.Defined() {
		t.Errorf("overall macro AUC should be defined")
	}
}

func TestMulticlassPerClassSkipsQuarters(t *testing.T) {
	report, err := NewMulticlass([]string{"H", "M", "L"}).Evaluate(multiclassTable())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	// For class M, q2 has no positive rows; for class H, q2 is all-positive.
	// Both land in the per-class skip list while keeping accuracy curves.
	for _, class := range []string{"H", "M"} {
		sub := report.PerClass[class]
		if !reflect.DeepEqual(sub.SkippedQuarters, []string{"q2"}) {
			t.Errorf("class %s skipped quarters = %v, want [q2]", class, sub.SkippedQuarters)
		}
		if len(sub.AccuracyCurves) != 2 {
			t.Errorf("class %s accuracy curves = %d, want 2", class, len(sub.AccuracyCurves))
		}
	}
}

func TestMulticlassTooFewClasses(t *testing.T) {
	_, err := NewMulticlass([]string{"H"}).Evaluate(multiclassTable())
	if err == nil {
		t.Fatal("expected error for a single-class label set")
	}
}

func TestOneVsRestRelabel(t *testing.T) {
	table := multiclassTable()
	rel := relabel(table, "M")

	wantLabels := []string{negativeLabel, "M", "M", negativeLabel, negativeLabel, negativeLabel}
	for i, row := range rel.Rows {
		if row.Label != wantLabels[i] {
			t.Errorf("row %d label = %q, want %q", i, row.Label, wantLabels[i])
		}
		if row.Score != table.Rows[i].Scores["M"] {
			t.Errorf("row %d score = %v, want class-M column %v", i, row.Score, table.Rows[i].Scores["M"])
		}
	}
}
