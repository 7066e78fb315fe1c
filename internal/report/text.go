package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/li-xiaohui/classeval/internal/domain"
)

// TextSink writes a human-readable results.txt into the results directory:
// the printed confusion matrix, its derived metrics, and the scalar summary
// lines per quarter and class.
type TextSink struct {
	Dir string
}

func NewTextSink(dir string) *TextSink {
	return &TextSink{Dir: dir}
}

func (s *TextSink) Write(report *domain.EvalReport) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	path := filepath.Join(s.Dir, "results.txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "evaluation run %s (%s, %d rows, %d quarters)\n",
		report.Run.ID, report.Run.Mode, report.Run.Rows, report.Run.Quarters)
	fmt.Fprintf(f, "created at %s\n\n", report.Run.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	if report.Confusion != nil {
		writeConfusion(f, report.Confusion)
	}
	if report.Binary != nil {
		writeBinary(f, report.Binary)
	}
	if report.Multiclass != nil {
		writeMulticlass(f, report.Multiclass)
	}
	return nil
}

func writeConfusion(w io.Writer, c *domain.ConfusionReport) {
	fmt.Fprintln(w, "confusion matrix (rows: predicted, columns: actual)")
	fmt.Fprintf(w, "%8s", "")
	for _, class := range c.Matrix.Classes {
		fmt.Fprintf(w, "%8s", class)
	}
	fmt.Fprintln(w)
	for i, class := range c.Matrix.Classes {
		fmt.Fprintf(w, "%8s", class)
		for j := range c.Matrix.Classes {
			fmt.Fprintf(w, "%8d", c.Matrix.Cells[i][j])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "overall accuracy: %s\n", formatFloat(c.OverallAccuracy))
	for _, class := range c.Matrix.Classes {
		m := c.PerClass[class]
		fmt.Fprintf(w, "class %s: accuracy=%s precision=%s recall=%s\n",
			class, formatFloat(m.Accuracy), formatFloat(m.Precision), formatFloat(m.Recall))
	}
	if len(c.Undefined) > 0 {
		fmt.Fprintln(w, "undefined metrics:")
		for _, u := range c.Undefined {
			fmt.Fprintf(w, "  %s\n", u)
		}
	}
	fmt.Fprintln(w)
}

func writeBinary(w io.Writer, b *domain.BinaryReport) {
	if b.Class != "" {
		fmt.Fprintf(w, "class %s (positive label %q)\n", b.Class, b.PositiveLabel)
	} else {
		fmt.Fprintf(w, "binary evaluation (positive label %q)\n", b.PositiveLabel)
	}
	for _, s := range b.Summaries {
		fmt.Fprintf(w, "  quarter %s: auc=%s max_f=%s@%s max_acc=%s@%s\n",
			s.Quarter, formatFloat(s.AUC),
			formatFloat(s.MaxFScore), formatFloat(s.MaxFScoreCutoff),
			formatFloat(s.MaxAccuracy), formatFloat(s.MaxAccuracyCutoff))
	}
	s := b.Combined.Summary
	fmt.Fprintf(w, "  combined: auc=%s max_f=%s@%s max_acc=%s@%s\n",
		formatFloat(s.AUC),
		formatFloat(s.MaxFScore), formatFloat(s.MaxFScoreCutoff),
		formatFloat(s.MaxAccuracy), formatFloat(s.MaxAccuracyCutoff))
	if len(b.SkippedQuarters) > 0 {
		fmt.Fprintf(w, "  skipped for roc/f/auc (no positive examples): %v\n", b.SkippedQuarters)
	}
	fmt.Fprintln(w)
}

func writeMulticlass(w io.Writer, m *domain.MulticlassReport) {
	for _, class := range m.Classes {
		sub, ok := m.PerClass[class]
		if !ok {
			continue
		}
		writeBinary(w, sub)
	}
	if len(m.SkippedClasses) > 0 {
		fmt.Fprintf(w, "skipped classes (degenerate one-vs-rest relabeling): %v\n", m.SkippedClasses)
	}

	fmt.Fprintln(w, "macro one-vs-rest AUC:")
	for _, q := range m.Quarters {
		fmt.Fprintf(w, "  %s: %s\n", q, formatFloat(m.QuarterAUC[q]))
	}
	fmt.Fprintf(w, "  overall: %s\n", formatFloat(m.OverallAUC))
}

func formatFloat(f domain.Float) string {
	v := float64(f)
	if math.IsNaN(v) {
		return "undefined"
	}
	if math.IsInf(v, 1) {
		return "Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	return fmt.Sprintf("%.4f", v)
}
