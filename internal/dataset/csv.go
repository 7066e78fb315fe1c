// Package dataset reads prediction tables from CSV files using the fixed row
// schema: key, test_on, label, and either a single prediction column (binary)
// or one prediction_<class> column per class (multiclass).
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/li-xiaohui/classeval/internal/domain"
)

const (
	colKey        = "key"
	colTestOn     = "test_on"
	colLabel      = "label"
	colPrediction = "prediction"
	classColPfx   = "prediction_"
)

// Read parses a prediction table. The class list is supplied explicitly by
// the caller; when empty the table is binary and a single prediction column
// is required. Missing columns fail with SchemaError before any row is read.
func Read(r io.Reader, classes []string) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	for _, required := range []string{colKey, colTestOn, colLabel} {
		if _, ok := cols[required]; !ok {
			return nil, &domain.SchemaError{Column: required, Reason: "missing from header"}
		}
	}
	if len(classes) == 0 {
		if _, ok := cols[colPrediction]; !ok {
			return nil, &domain.SchemaError{Column: colPrediction, Reason: "missing from header"}
		}
	} else {
		for _, class := range classes {
			if _, ok := cols[classColPfx+class]; !ok {
				return nil, &domain.SchemaError{Column: classColPfx + class, Reason: "missing from header"}
			}
		}
	}

	table := &domain.Table{Classes: classes}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		row := domain.PredictionRow{
			Key:    record[cols[colKey]],
			TestOn: record[cols[colTestOn]],
			Label:  record[cols[colLabel]],
		}
		if len(classes) == 0 {
			row.Score, err = parseScore(record[cols[colPrediction]], colPrediction, line)
			if err != nil {
				return nil, err
			}
		} else {
			row.Scores = make(map[string]float64, len(classes))
			for _, class := range classes {
				col := classColPfx + class
				row.Scores[class], err = parseScore(record[cols[col]], col, line)
				if err != nil {
					return nil, err
				}
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ReadFile reads a prediction table from a CSV file on disk.
func ReadFile(path string, classes []string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, classes)
}

func parseScore(value, column string, line int) (float64, error) {
	score, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &domain.SchemaError{Column: column, Reason: fmt.Sprintf("line %d: %q is not a number", line, value)}
	}
	return score, nil
}
