package domain

import (
	"fmt"
	"strings"
)

// DegenerateInputError reports a curve computed over data with too few label
// classes. At the quarter level it excludes the quarter from ROC/F/AUC
// aggregation; at the whole-table level it aborts the evaluation.
type DegenerateInputError struct {
	Scope          string
	DistinctLabels int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input in %s: %d distinct label(s), need 2", e.Scope, e.DistinctLabels)
}

// UndefinedMetricError reports a metric whose denominator is zero, such as
// precision for a class that was never predicted. It is surfaced as an
// explicit undefined value in reports, never coerced to zero.
type UndefinedMetricError struct {
	Metric string
	Class  string
}

func (e *UndefinedMetricError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("%s is undefined: zero denominator", e.Metric)
	}
	return fmt.Sprintf("%s is undefined for class %s: zero denominator", e.Metric, e.Class)
}

// SchemaError reports a prediction table that is missing required columns or
// values. Schema failures are fatal and produce no partial report.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	parts := []string{"schema error"}
	if e.Column != "" {
		parts = append(parts, "column "+e.Column)
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, ": ")
}
