package evaluator

import (
	"time"

	"github.com/google/uuid"

	"github.com/li-xiaohui/classeval/internal/confusion"
	"github.com/li-xiaohui/classeval/internal/domain"
)

type Options struct {
	PositiveLabel string
	Classes       []string
}

// Run evaluates a frozen prediction table end to end and assembles the full
// report handed to sinks: binary or multiclass curve aggregation, plus the
// confusion-matrix report when per-class score columns are available.
func Run(t *domain.Table, opts Options) (*domain.EvalReport, error) {
	if len(opts.Classes) > 0 && len(t.Classes) == 0 {
		t.Classes = opts.Classes
	}

	report := &domain.EvalReport{
		Run: domain.RunInfo{
			ID:        uuid.New().String(),
			Mode:      t.Mode(),
			Rows:      len(t.Rows),
			CreatedAt: time.Now().UTC(),
		},
	}

	switch t.Mode() {
	case domain.ModeMulticlass:
		mc, err := NewMulticlass(t.Classes).Evaluate(t)
		if err != nil {
			return nil, err
		}
		report.Multiclass = mc
		report.Run.Quarters = len(mc.Quarters)
		report.Run.Classes = len(t.Classes)

		cm, err := confusion.Report(t)
		if err != nil {
			return nil, err
		}
		report.Confusion = cm
	default:
		positive := opts.PositiveLabel
		if positive == "" {
			positive = "1"
		}
		b, err := NewBinary(positive).Evaluate(t)
		if err != nil {
			return nil, err
		}
		report.Binary = b
		report.Run.Quarters = len(b.Quarters)
	}

	return report, nil
}
