// Package confusion derives predicted classes, builds the labeled confusion
// matrix, and reports overall and per-class accuracy, precision, and recall.
package confusion

import (
	"log"
	"math"

	"github.com/li-xiaohui/classeval/internal/domain"
)

// Predict returns the class with the maximal score for a row. Ties go to the
// first class in the caller-supplied ordering that achieves the maximum.
func Predict(row domain.PredictionRow, classOrder []string) string {
	if len(classOrder) == 0 {
		return ""
	}
	best := classOrder[0]
	bestScore := row.Scores[classOrder[0]]
	for _, class := range classOrder[1:] {
		if row.Scores[class] > bestScore {
			best = class
			bestScore = row.Scores[class]
		}
	}
	return best
}

// Build tallies (predicted, actual) pairs over the whole table. The matrix is
// fixed-size over the table's class ordering, so classes never predicted or
// never observed appear as all-zero rows and columns.
func Build(t *domain.Table) (*domain.ConfusionMatrix, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(t.Classes) == 0 {
		return nil, &domain.SchemaError{Column: "classes", Reason: "confusion matrix needs an explicit class ordering"}
	}

	m := domain.NewConfusionMatrix(t.Classes)
	for _, row := range t.Rows {
		if err := m.Add(Predict(row, t.Classes), row.Label); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Derive computes overall and per-class metrics from the matrix margins.
// Zero-denominator precision or recall is reported as an explicit undefined
// value, never coerced to zero.
func Derive(m *domain.ConfusionMatrix) *domain.ConfusionReport {
	total := m.Total()
	report := &domain.ConfusionReport{
		Matrix:   m,
		PerClass: make(map[string]domain.ClassMetrics, len(m.Classes)),
	}
	if total == 0 {
		report.OverallAccuracy = domain.Float(math.NaN())
		return report
	}
	report.OverallAccuracy = domain.Float(float64(m.Trace()) / float64(total))

	for i, class := range m.Classes {
		counts := m.ClassCounts(i)
		metrics := domain.ClassMetrics{Accuracy: domain.Float(counts.Accuracy())}

		if precision, ok := counts.Precision(); ok {
			metrics.Precision = domain.Float(precision)
		} else {
			metrics.Precision = domain.Float(math.NaN())
			err := &domain.UndefinedMetricError{Metric: "precision", Class: class}
			report.Undefined = append(report.Undefined, err.Error())
			log.Printf("Confusion report: %v", err)
		}

		if recall, ok := counts.Recall(); ok {
			metrics.Recall = domain.Float(recall)
		} else {
			metrics.Recall = domain.Float(math.NaN())
			err := &domain.UndefinedMetricError{Metric: "recall", Class: class}
			report.Undefined = append(report.Undefined, err.Error())
			log.Printf("Confusion report: %v", err)
		}

		report.PerClass[class] = metrics
	}
	return report
}

// Report builds the matrix and derives its metrics in one step.
func Report(t *domain.Table) (*domain.ConfusionReport, error) {
	m, err := Build(t)
	if err != nil {
		return nil, err
	}
	return Derive(m), nil
}
