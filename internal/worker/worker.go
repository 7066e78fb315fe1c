package worker

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/li-xiaohui/classeval/internal/evaluator"
	"github.com/li-xiaohui/classeval/internal/queue"
	"github.com/li-xiaohui/classeval/internal/report"
	"github.com/li-xiaohui/classeval/internal/storage"
)

type Worker struct {
	queue       *queue.RedisQueue
	predictions *storage.PredictionRepo
	resultsDir  string
	concurrency int
	batchSize   int
}

func New(
	q *queue.RedisQueue,
	predictions *storage.PredictionRepo,
	resultsDir string,
	concurrency int,
	batchSize int,
) *Worker {
	return &Worker{
		queue:       q,
		predictions: predictions,
		resultsDir:  resultsDir,
		concurrency: concurrency,
		batchSize:   batchSize,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	log.Printf("Starting worker with concurrency=%d, batchSize=%d", w.concurrency, w.batchSize)

	jobs := make(chan queue.Message, w.concurrency*2)
	var wg sync.WaitGroup

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processJobs(ctx, workerID, jobs)
		}(i)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
				messages, err := w.queue.Consume(ctx, int64(w.batchSize), 5*time.Second)
				if err != nil {
					log.Printf("Error consuming messages: %v", err)
					time.Sleep(time.Second)
					continue
				}

				for _, msg := range messages {
					select {
					case jobs <- msg:
					case <-ctx.Done():
						close(jobs)
						return
					}
				}
			}
		}
	}()

	wg.Wait()
	return nil
}

func (w *Worker) processJobs(ctx context.Context, workerID int, jobs <-chan queue.Message) {
	for msg := range jobs {
		if err := w.processJob(ctx, msg); err != nil {
			log.Printf("Worker %d: error processing job %s: %v", workerID, msg.Job.ID, err)
			continue
		}

		if err := w.queue.Ack(ctx, msg.ID); err != nil {
			log.Printf("Worker %d: error acking %s: %v", workerID, msg.ID, err)
		}
	}
}

func (w *Worker) processJob(ctx context.Context, msg queue.Message) error {
	job := msg.Job
	log.Printf("Evaluating run %s (job %s)", job.RunID, job.ID)

	table, err := w.predictions.LoadTable(ctx, job.RunID, job.Classes)
	if err != nil {
		return err
	}

	result, err := evaluator.Run(table, evaluator.Options{
		PositiveLabel: job.PositiveLabel,
		Classes:       job.Classes,
	})
	if err != nil {
		return err
	}

	dir := job.OutputDir
	if dir == "" {
		dir = filepath.Join(w.resultsDir, job.RunID)
	}
	sinks := report.Multi{
		report.NewTextSink(dir),
		report.NewJSONSink(dir),
		report.NewExcelSink(dir),
	}
	if err := sinks.Write(result); err != nil {
		return err
	}

	log.Printf("Run %s evaluated: %d rows, %d quarters, artifacts in %s",
		job.RunID, result.Run.Rows, result.Run.Quarters, dir)
	return nil
}
