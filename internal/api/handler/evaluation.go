package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/li-xiaohui/classeval/internal/config"
	"github.com/li-xiaohui/classeval/internal/domain"
	"github.com/li-xiaohui/classeval/internal/evaluator"
	"github.com/li-xiaohui/classeval/internal/queue"
	"github.com/li-xiaohui/classeval/internal/storage"
)

type EvaluationHandler struct {
	predictions *storage.PredictionRepo
	queue       *queue.RedisQueue
	eval        config.EvalConfig
}

func NewEvaluationHandler(predictions *storage.PredictionRepo, q *queue.RedisQueue, eval config.EvalConfig) *EvaluationHandler {
	return &EvaluationHandler{predictions: predictions, queue: q, eval: eval}
}

type enqueueRequest struct {
	RunID         string   `json:"run_id" binding:"required"`
	PositiveLabel string   `json:"positive_label"`
	Classes       []string `json:"classes"`
	OutputDir     string   `json:"output_dir"`
}

// Enqueue publishes an evaluation job for a stored prediction run.
func (h *EvaluationHandler) Enqueue(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job := &domain.EvalJob{
		ID:            uuid.New().String(),
		RunID:         req.RunID,
		PositiveLabel: req.PositiveLabel,
		Classes:       req.Classes,
		OutputDir:     req.OutputDir,
		CreatedAt:     time.Now().UTC(),
	}
	if job.PositiveLabel == "" {
		job.PositiveLabel = h.eval.PositiveLabel
	}
	if len(job.Classes) == 0 {
		job.Classes = h.eval.Classes
	}

	if err := h.queue.Publish(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue evaluation"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "run_id": job.RunID})
}

type runRequest struct {
	Table         domain.Table `json:"table" binding:"required"`
	PositiveLabel string       `json:"positive_label"`
	Classes       []string     `json:"classes"`
}

// Run evaluates an inline prediction table synchronously and returns the
// full report. Schema and degenerate-input failures map to 422 so callers
// can tell bad data from server trouble.
func (h *EvaluationHandler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := evaluator.Run(&req.Table, evaluator.Options{
		PositiveLabel: req.PositiveLabel,
		Classes:       req.Classes,
	})
	if err != nil {
		var schema *domain.SchemaError
		var degenerate *domain.DegenerateInputError
		if errors.As(err, &schema) || errors.As(err, &degenerate) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Report serves the report.json artifact written for a run, or 404 while the
// evaluation is still pending.
func (h *EvaluationHandler) Report(c *gin.Context) {
	runID := c.Param("run_id")
	if runID == "" || runID != filepath.Base(runID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	path := filepath.Join(h.eval.ResultsDir, runID, "report.json")
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report for run", "run_id": runID})
		return
	}
	c.File(path)
}

// Runs lists the prediction runs known to the table source.
func (h *EvaluationHandler) Runs(c *gin.Context) {
	runs, err := h.predictions.ListRuns(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
