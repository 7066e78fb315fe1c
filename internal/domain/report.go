package domain

import (
	"math"
	"strconv"
	"time"
)

type MetricKind string

const (
	MetricAccuracy        MetricKind = "accuracy"
	MetricROC             MetricKind = "roc"
	MetricFScore          MetricKind = "f_score"
	MetricPrecisionRecall MetricKind = "precision_recall"
	MetricSensSpec        MetricKind = "sensitivity_specificity"
)

// Float marshals NaN and infinities as JSON null so undefined metric values
// and the +Inf cutoff sentinel survive serialization.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func (f Float) Defined() bool {
	return !math.IsNaN(float64(f))
}

// CurvePoint is one threshold-swept sample. For accuracy and F-score curves
// X repeats the cutoff; for ROC X/Y are FPR/TPR, for precision-recall
// recall/precision, for sensitivity-specificity specificity/sensitivity.
type CurvePoint struct {
	Cutoff Float `json:"cutoff"`
	X      Float `json:"x"`
	Y      Float `json:"y"`
}

type Curve struct {
	Kind    MetricKind   `json:"kind"`
	Quarter string       `json:"quarter,omitempty"`
	Class   string       `json:"class,omitempty"`
	Points  []CurvePoint `json:"points"`
}

type ScalarSummary struct {
	Quarter           string `json:"quarter,omitempty"`
	Class             string `json:"class,omitempty"`
	AUC               Float  `json:"auc"`
	MaxFScore         Float  `json:"max_f_score"`
	MaxFScoreCutoff   Float  `json:"max_f_score_cutoff"`
	MaxAccuracy       Float  `json:"max_accuracy"`
	MaxAccuracyCutoff Float  `json:"max_accuracy_cutoff"`
}

// CombinedResult pools every row into a single quarter. The pooled set is
// never excluded; a single-class pooled table fails the whole evaluation.
type CombinedResult struct {
	Accuracy        Curve         `json:"accuracy"`
	ROC             Curve         `json:"roc"`
	FScore          Curve         `json:"f_score"`
	PrecisionRecall Curve         `json:"precision_recall"`
	SensSpec        Curve         `json:"sensitivity_specificity"`
	Summary         ScalarSummary `json:"summary"`
}

type BinaryReport struct {
	Class           string          `json:"class,omitempty"`
	PositiveLabel   string          `json:"positive_label"`
	Quarters        []string        `json:"quarters"`
	SkippedQuarters []string        `json:"skipped_quarters,omitempty"`
	AccuracyCurves  []Curve         `json:"accuracy_curves"`
	ROCCurves       []Curve         `json:"roc_curves"`
	FScoreCurves    []Curve         `json:"f_score_curves"`
	Summaries       []ScalarSummary `json:"summaries"`
	Combined        CombinedResult  `json:"combined"`
}

type MulticlassReport struct {
	Classes        []string                 `json:"classes"`
	SkippedClasses []string                 `json:"skipped_classes,omitempty"`
	Quarters       []string                 `json:"quarters"`
	PerClass       map[string]*BinaryReport `json:"per_class"`
	QuarterAUC     map[string]Float         `json:"quarter_auc"`
	OverallAUC     Float                    `json:"overall_auc"`
}

type ClassMetrics struct {
	Accuracy  Float `json:"accuracy"`
	Precision Float `json:"precision"`
	Recall    Float `json:"recall"`
}

type ConfusionReport struct {
	Matrix          *ConfusionMatrix        `json:"matrix"`
	OverallAccuracy Float                   `json:"overall_accuracy"`
	PerClass        map[string]ClassMetrics `json:"per_class"`
	Undefined       []string                `json:"undefined_metrics,omitempty"`
}

type RunInfo struct {
	ID        string    `json:"id"`
	Mode      EvalMode  `json:"mode"`
	Rows      int       `json:"rows"`
	Quarters  int       `json:"quarters"`
	Classes   int       `json:"classes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EvalReport is the full structured result handed to report sinks.
type EvalReport struct {
	Run        RunInfo           `json:"run"`
	Binary     *BinaryReport     `json:"binary,omitempty"`
	Multiclass *MulticlassReport `json:"multiclass,omitempty"`
	Confusion  *ConfusionReport  `json:"confusion,omitempty"`
}
