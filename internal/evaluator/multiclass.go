package evaluator

import (
	"errors"
	"log"
	"math"
	"sync"

	"github.com/li-xiaohui/classeval/internal/curve"
	"github.com/li-xiaohui/classeval/internal/domain"
	"github.com/li-xiaohui/classeval/internal/partition"
)

// negativeLabel is the one-vs-rest sentinel, distinct from every real class.
const negativeLabel = "__rest__"

type Multiclass struct {
	classes []string
}

func NewMulticlass(classes []string) *Multiclass {
	return &Multiclass{classes: classes}
}

type classResult struct {
	idx    int
	report *domain.BinaryReport
	err    error
}

// Evaluate runs the binary aggregation once per one-vs-rest relabeling and
// computes the macro-averaged multiclass AUC per quarter and overall.
// Per-class relabelings are independent, so they run concurrently; results
// merge back in class order for deterministic report output.
func (m *Multiclass) Evaluate(t *domain.Table) (*domain.MulticlassReport, error) {
	if len(m.classes) < 2 {
		return nil, &domain.DegenerateInputError{Scope: "class labels", DistinctLabels: len(m.classes)}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	_, order := partition.Split(t)
	report := &domain.MulticlassReport{
		Classes:    m.classes,
		Quarters:   order,
		PerClass:   make(map[string]*domain.BinaryReport, len(m.classes)),
		QuarterAUC: make(map[string]domain.Float, len(order)),
	}

	results := make(chan classResult, len(m.classes))
	var wg sync.WaitGroup
	for i, class := range m.classes {
		wg.Add(1)
		go func(idx int, class string) {
			defer wg.Done()
			rel := relabel(t, class)
			r, err := NewBinary(class).Evaluate(rel)
			results <- classResult{idx: idx, report: r, err: err}
		}(i, class)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]classResult, len(m.classes))
	for r := range results {
		ordered[r.idx] = r
	}

	for i, r := range ordered {
		class := m.classes[i]
		if r.err != nil {
			var degenerate *domain.DegenerateInputError
			if errors.As(r.err, &degenerate) {
				report.SkippedClasses = append(report.SkippedClasses, class)
				log.Printf("Skipping class %s: %v", class, r.err)
				continue
			}
			return nil, r.err
		}
		r.report.Class = class
		tagCurves(r.report, class)
		report.PerClass[class] = r.report
	}
	if len(report.PerClass) == 0 {
		return nil, &domain.DegenerateInputError{Scope: "all one-vs-rest relabelings", DistinctLabels: 1}
	}

	m.macroAUC(t, order, report)

	return report, nil
}

// macroAUC averages the one-vs-rest AUC across classes, once per quarter and
// once over the whole table. Classes degenerate in a quarter are skipped; a
// quarter degenerate for every class reports NaN rather than a zero-fill.
func (m *Multiclass) macroAUC(t *domain.Table, order []string, report *domain.MulticlassReport) {
	parts, _ := partition.Split(t)

	for _, quarter := range order {
		report.QuarterAUC[quarter] = domain.Float(m.averageAUC(parts[quarter], quarter))
	}
	report.OverallAUC = domain.Float(m.averageAUC(t.Rows, "overall"))
}

func (m *Multiclass) averageAUC(rows []domain.PredictionRow, scope string) float64 {
	var sum float64
	var n int
	for _, class := range m.classes {
		scores := make([]float64, len(rows))
		labels := make([]string, len(rows))
		for i, row := range rows {
			scores[i] = row.Scores[class]
			labels[i] = oneVsRest(row.Label, class)
		}
		auc, err := curve.AUC(scores, labels, class)
		if err != nil {
			var degenerate *domain.DegenerateInputError
			if errors.As(err, &degenerate) {
				log.Printf("Macro AUC (%s): skipping class %s: %v", scope, class, err)
				continue
			}
			log.Printf("Macro AUC (%s): class %s failed: %v", scope, class, err)
			continue
		}
		sum += auc
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// relabel builds the one-vs-rest view of the table for a class: the label
// collapses to class-or-sentinel and the score becomes that class's column.
func relabel(t *domain.Table, class string) *domain.Table {
	rows := make([]domain.PredictionRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = domain.PredictionRow{
			Key:    row.Key,
			TestOn: row.TestOn,
			Label:  oneVsRest(row.Label, class),
			Score:  row.Scores[class],
		}
	}
	return &domain.Table{Rows: rows}
}

func oneVsRest(label, class string) string {
	if label == class {
		return class
	}
	return negativeLabel
}

func tagCurves(r *domain.BinaryReport, class string) {
	for i := range r.AccuracyCurves {
		r.AccuracyCurves[i].Class = class
	}
	for i := range r.ROCCurves {
		r.ROCCurves[i].Class = class
	}
	for i := range r.FScoreCurves {
		r.FScoreCurves[i].Class = class
	}
	for i := range r.Summaries {
		r.Summaries[i].Class = class
	}
	r.Combined.Accuracy.Class = class
	r.Combined.ROC.Class = class
	r.Combined.FScore.Class = class
	r.Combined.PrecisionRecall.Class = class
	r.Combined.SensSpec.Class = class
	r.Combined.Summary.Class = class
}
