// Package curve computes threshold-swept performance curves and their scalar
// summaries from parallel score/label sequences.
package curve

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"

	"github.com/li-xiaohui/classeval/internal/domain"
)

// sweepPoint is the confusion at one cutoff. Sweeps are ordered by strictly
// descending cutoff, starting at the +Inf sentinel where nothing is predicted
// positive and ending at the minimum observed score where everything is.
type sweepPoint struct {
	Cutoff float64
	Counts domain.Counts
}

// sweep counts TP/FP/TN/FN at every distinct cutoff. A row is predicted
// positive when its score is >= the cutoff, so tied scores collapse into a
// single point.
func sweep(scores []float64, labels []string, positive string) []sweepPoint {
	type scored struct {
		score float64
		pos   bool
	}
	rows := make([]scored, len(scores))
	var totalPos, totalNeg int
	for i, s := range scores {
		rows[i] = scored{score: s, pos: labels[i] == positive}
		if rows[i].pos {
			totalPos++
		} else {
			totalNeg++
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	points := []sweepPoint{{
		Cutoff: math.Inf(1),
		Counts: domain.Counts{TN: totalNeg, FN: totalPos},
	}}

	var tp, fp int
	for i, r := range rows {
		if r.pos {
			tp++
		} else {
			fp++
		}
		// Emit only after the last row of a tie group.
		if i+1 < len(rows) && rows[i+1].score == r.score {
			continue
		}
		points = append(points, sweepPoint{
			Cutoff: r.score,
			Counts: domain.Counts{TP: tp, FP: fp, TN: totalNeg - fp, FN: totalPos - tp},
		})
	}
	return points
}

func distinctAfterCollapse(labels []string, positive string) int {
	var hasPos, hasNeg bool
	for _, l := range labels {
		if l == positive {
			hasPos = true
		} else {
			hasNeg = true
		}
	}
	n := 0
	if hasPos {
		n++
	}
	if hasNeg {
		n++
	}
	return n
}

// Compute returns the threshold-swept curve for one metric kind. Accuracy is
// defined even when only one class is present; every other kind needs both
// classes and fails with DegenerateInputError otherwise. Points whose value
// is undefined at a cutoff (precision at the +Inf sentinel) are omitted.
func Compute(scores []float64, labels []string, positive string, kind domain.MetricKind) (domain.Curve, error) {
	c := domain.Curve{Kind: kind}
	if len(scores) == 0 || len(scores) != len(labels) {
		return c, &domain.SchemaError{Reason: "scores and labels must be non-empty and the same length"}
	}
	if kind != domain.MetricAccuracy {
		if n := distinctAfterCollapse(labels, positive); n < 2 {
			return c, &domain.DegenerateInputError{Scope: "curve input", DistinctLabels: n}
		}
	}

	for _, p := range sweep(scores, labels, positive) {
		point, ok := pointFor(kind, p)
		if !ok {
			continue
		}
		c.Points = append(c.Points, point)
	}
	return c, nil
}

func pointFor(kind domain.MetricKind, p sweepPoint) (domain.CurvePoint, bool) {
	cutoff := domain.Float(p.Cutoff)
	switch kind {
	case domain.MetricAccuracy:
		return domain.CurvePoint{Cutoff: cutoff, X: cutoff, Y: domain.Float(p.Counts.Accuracy())}, true
	case domain.MetricROC:
		fpr, _ := p.Counts.FalsePositiveRate()
		tpr, _ := p.Counts.TruePositiveRate()
		return domain.CurvePoint{Cutoff: cutoff, X: domain.Float(fpr), Y: domain.Float(tpr)}, true
	case domain.MetricFScore:
		precision, ok := p.Counts.Precision()
		if !ok {
			return domain.CurvePoint{}, false
		}
		recall, _ := p.Counts.Recall()
		f := domain.FScore(precision, recall)
		return domain.CurvePoint{Cutoff: cutoff, X: cutoff, Y: domain.Float(f)}, true
	case domain.MetricPrecisionRecall:
		precision, ok := p.Counts.Precision()
		if !ok {
			return domain.CurvePoint{}, false
		}
		recall, _ := p.Counts.Recall()
		return domain.CurvePoint{Cutoff: cutoff, X: domain.Float(recall), Y: domain.Float(precision)}, true
	case domain.MetricSensSpec:
		spec, _ := p.Counts.Specificity()
		sens, _ := p.Counts.TruePositiveRate()
		return domain.CurvePoint{Cutoff: cutoff, X: domain.Float(spec), Y: domain.Float(sens)}, true
	}
	return domain.CurvePoint{}, false
}

// AUC integrates the ROC curve with the trapezoidal rule over (FPR, TPR)
// points in ascending FPR order.
func AUC(scores []float64, labels []string, positive string) (float64, error) {
	roc, err := Compute(scores, labels, positive, domain.MetricROC)
	if err != nil {
		return 0, err
	}
	fpr := make([]float64, len(roc.Points))
	tpr := make([]float64, len(roc.Points))
	for i, p := range roc.Points {
		fpr[i] = float64(p.X)
		tpr[i] = float64(p.Y)
	}
	return integrate.Trapezoidal(fpr, tpr), nil
}

// Max returns the curve point with the maximal value, keeping the first
// (highest-cutoff) point on ties.
func Max(c domain.Curve) domain.CurvePoint {
	if len(c.Points) == 0 {
		return domain.CurvePoint{
			Cutoff: domain.Float(math.NaN()),
			X:      domain.Float(math.NaN()),
			Y:      domain.Float(math.NaN()),
		}
	}
	best := c.Points[0]
	for _, p := range c.Points[1:] {
		if p.Y > best.Y {
			best = p
		}
	}
	return best
}
