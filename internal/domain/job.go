package domain

import "time"

// EvalJob is a queued request to evaluate one prediction run and write its
// report artifacts.
type EvalJob struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	PositiveLabel string    `json:"positive_label,omitempty"`
	Classes       []string  `json:"classes,omitempty"`
	OutputDir     string    `json:"output_dir,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
