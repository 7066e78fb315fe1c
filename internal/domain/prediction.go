package domain

import "fmt"

type EvalMode string

const (
	ModeBinary     EvalMode = "binary"
	ModeMulticlass EvalMode = "multiclass"
)

type PredictionRow struct {
	Key    string             `json:"key"`
	TestOn string             `json:"test_on"`
	Label  string             `json:"label"`
	Score  float64            `json:"prediction"`
	Scores map[string]float64 `json:"predictions,omitempty"`
}

// Table is a frozen prediction table handed over by the caller once all
// quarters have been scored. Classes is empty for binary tables.
type Table struct {
	Classes []string        `json:"classes,omitempty"`
	Rows    []PredictionRow `json:"rows"`
}

func (t *Table) Mode() EvalMode {
	if len(t.Classes) > 0 {
		return ModeMulticlass
	}
	return ModeBinary
}

// Quarters returns the quarter identifiers in order of first appearance.
func (t *Table) Quarters() []string {
	seen := make(map[string]bool)
	var quarters []string
	for _, row := range t.Rows {
		if !seen[row.TestOn] {
			seen[row.TestOn] = true
			quarters = append(quarters, row.TestOn)
		}
	}
	return quarters
}

// Validate checks the row schema before any evaluation runs. It fails with a
// SchemaError so callers can abort without producing a partial report.
func (t *Table) Validate() error {
	if len(t.Rows) == 0 {
		return &SchemaError{Reason: "table has no rows"}
	}
	for i, row := range t.Rows {
		if row.Key == "" {
			return &SchemaError{Column: "key", Reason: fmt.Sprintf("row %d: empty key", i)}
		}
		if row.TestOn == "" {
			return &SchemaError{Column: "test_on", Reason: fmt.Sprintf("row %d: empty quarter id", i)}
		}
		if row.Label == "" {
			return &SchemaError{Column: "label", Reason: fmt.Sprintf("row %d: empty label", i)}
		}
		if len(t.Classes) > 0 {
			for _, class := range t.Classes {
				if _, ok := row.Scores[class]; !ok {
					return &SchemaError{
						Column: "prediction_" + class,
						Reason: fmt.Sprintf("row %d (%s): missing score for class %s", i, row.Key, class),
					}
				}
			}
		}
	}
	return nil
}
