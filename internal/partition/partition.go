// Package partition splits prediction tables into per-quarter subsets and
// identifies quarters that cannot support threshold-swept evaluation.
package partition

import "github.com/li-xiaohui/classeval/internal/domain"

// Split groups rows by quarter, preserving row order within each subset.
// The returned order lists quarters by first appearance.
func Split(t *domain.Table) (map[string][]domain.PredictionRow, []string) {
	parts := make(map[string][]domain.PredictionRow)
	var order []string
	for _, row := range t.Rows {
		if _, ok := parts[row.TestOn]; !ok {
			order = append(order, row.TestOn)
		}
		parts[row.TestOn] = append(parts[row.TestOn], row)
	}
	return parts, order
}

// ValidQuarters returns, in the given order, the quarters holding at least
// one row whose label is in the positive set. Quarters without a positive
// example cannot produce ROC/F-score/AUC curves and are excluded from those
// aggregates, though they still contribute accuracy curves.
func ValidQuarters(parts map[string][]domain.PredictionRow, order []string, positives ...string) []string {
	posSet := make(map[string]bool, len(positives))
	for _, p := range positives {
		posSet[p] = true
	}
	var valid []string
	for _, quarter := range order {
		for _, row := range parts[quarter] {
			if posSet[row.Label] {
				valid = append(valid, quarter)
				break
			}
		}
	}
	return valid
}
