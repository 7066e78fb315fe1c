package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/li-xiaohui/classeval/internal/domain"
)

// PredictionRepo reads frozen prediction tables produced by the scoring
// pipeline. The table is owned by that pipeline; this repo only loads it,
// evaluation results are never written back.
type PredictionRepo struct {
	db *PostgresDB
}

func NewPredictionRepo(db *PostgresDB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

// LoadTable loads every prediction row for a run, preserving insertion
// order. For multiclass runs the per-class scores live in a JSONB column
// keyed by class label.
func (r *PredictionRepo) LoadTable(ctx context.Context, runID string, classes []string) (*domain.Table, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT key, test_on, label, prediction, class_scores
		FROM predictions
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query predictions for run %s: %w", runID, err)
	}
	defer rows.Close()

	table := &domain.Table{Classes: classes}
	for rows.Next() {
		var row domain.PredictionRow
		var score *float64
		var classScores []byte
		if err := rows.Scan(&row.Key, &row.TestOn, &row.Label, &score, &classScores); err != nil {
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		if score != nil {
			row.Score = *score
		}
		if len(classScores) > 0 {
			if err := json.Unmarshal(classScores, &row.Scores); err != nil {
				return nil, fmt.Errorf("decode class scores for %s: %w", row.Key, err)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}

	if len(table.Rows) == 0 {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("run %s has no prediction rows", runID)}
	}
	return table, nil
}

// ListRuns returns the known run identifiers, most recent first.
func (r *PredictionRepo) ListRuns(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT run_id
		FROM predictions
		GROUP BY run_id
		ORDER BY max(id) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}
