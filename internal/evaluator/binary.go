// Package evaluator orchestrates curve computation across quarters and, for
// multiclass tables, across one-vs-rest relabelings.
package evaluator

import (
	"errors"
	"fmt"
	"log"

	"github.com/li-xiaohui/classeval/internal/curve"
	"github.com/li-xiaohui/classeval/internal/domain"
	"github.com/li-xiaohui/classeval/internal/partition"
)

type Binary struct {
	positive string
}

func NewBinary(positive string) *Binary {
	return &Binary{positive: positive}
}

// Evaluate computes per-quarter and pooled curves for a binary prediction
// table. Quarters that cannot support ROC/F/AUC are skipped and flagged; a
// pooled table with fewer than two label classes fails the whole evaluation.
func (b *Binary) Evaluate(t *domain.Table) (*domain.BinaryReport, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	scores, labels := collect(t.Rows)
	if n := distinctLabels(labels); n < 2 {
		return nil, &domain.DegenerateInputError{Scope: "combined table", DistinctLabels: n}
	}

	parts, order := partition.Split(t)
	valid := partition.ValidQuarters(parts, order, b.positive)
	validSet := make(map[string]bool, len(valid))
	for _, q := range valid {
		validSet[q] = true
	}

	report := &domain.BinaryReport{
		PositiveLabel: b.positive,
		Quarters:      order,
	}

	for _, quarter := range order {
		qScores, qLabels := collect(parts[quarter])

		acc, err := curve.Compute(qScores, qLabels, b.positive, domain.MetricAccuracy)
		if err != nil {
			return nil, fmt.Errorf("accuracy curve for quarter %s: %w", quarter, err)
		}
		acc.Quarter = quarter
		report.AccuracyCurves = append(report.AccuracyCurves, acc)

		if !validSet[quarter] {
			report.SkippedQuarters = append(report.SkippedQuarters, quarter)
			log.Printf("Skipping quarter %s for ROC/F/AUC: no positive examples for label %q", quarter, b.positive)
			continue
		}

		roc, err := curve.Compute(qScores, qLabels, b.positive, domain.MetricROC)
		if err != nil {
			var degenerate *domain.DegenerateInputError
			if errors.As(err, &degenerate) {
				// Positive-only quarters pass ValidQuarters but still
				// cannot produce a curve.
				report.SkippedQuarters = append(report.SkippedQuarters, quarter)
				log.Printf("Skipping quarter %s for ROC/F/AUC: %v", quarter, err)
				continue
			}
			return nil, fmt.Errorf("roc curve for quarter %s: %w", quarter, err)
		}
		roc.Quarter = quarter
		report.ROCCurves = append(report.ROCCurves, roc)

		f, err := curve.Compute(qScores, qLabels, b.positive, domain.MetricFScore)
		if err != nil {
			return nil, fmt.Errorf("f-score curve for quarter %s: %w", quarter, err)
		}
		f.Quarter = quarter
		report.FScoreCurves = append(report.FScoreCurves, f)

		summary, err := b.summarize(qScores, qLabels, acc, f)
		if err != nil {
			return nil, fmt.Errorf("summary for quarter %s: %w", quarter, err)
		}
		summary.Quarter = quarter
		report.Summaries = append(report.Summaries, summary)
	}

	combined, err := b.combined(scores, labels)
	if err != nil {
		return nil, err
	}
	report.Combined = combined

	return report, nil
}

// combined pools every row into a single set. No quarter exclusion applies
// here: the caller already knows both classes are present.
func (b *Binary) combined(scores []float64, labels []string) (domain.CombinedResult, error) {
	var result domain.CombinedResult

	kinds := []struct {
		kind domain.MetricKind
		dst  *domain.Curve
	}{
		{domain.MetricAccuracy, &result.Accuracy},
		{domain.MetricROC, &result.ROC},
		{domain.MetricFScore, &result.FScore},
		{domain.MetricPrecisionRecall, &result.PrecisionRecall},
		{domain.MetricSensSpec, &result.SensSpec},
	}
	for _, k := range kinds {
		c, err := curve.Compute(scores, labels, b.positive, k.kind)
		if err != nil {
			return result, fmt.Errorf("combined %s curve: %w", k.kind, err)
		}
		c.Quarter = "combined"
		*k.dst = c
	}

	summary, err := b.summarize(scores, labels, result.Accuracy, result.FScore)
	if err != nil {
		return result, err
	}
	summary.Quarter = "combined"
	result.Summary = summary
	return result, nil
}

func (b *Binary) summarize(scores []float64, labels []string, acc, f domain.Curve) (domain.ScalarSummary, error) {
	auc, err := curve.AUC(scores, labels, b.positive)
	if err != nil {
		return domain.ScalarSummary{}, err
	}
	maxAcc := curve.Max(acc)
	maxF := curve.Max(f)
	return domain.ScalarSummary{
		AUC:               domain.Float(auc),
		MaxFScore:         maxF.Y,
		MaxFScoreCutoff:   maxF.Cutoff,
		MaxAccuracy:       maxAcc.Y,
		MaxAccuracyCutoff: maxAcc.Cutoff,
	}, nil
}

func collect(rows []domain.PredictionRow) ([]float64, []string) {
	scores := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		scores[i] = row.Score
		labels[i] = row.Label
	}
	return scores, labels
}

func distinctLabels(labels []string) int {
	seen := make(map[string]bool)
	for _, l := range labels {
		seen[l] = true
	}
	return len(seen)
}
