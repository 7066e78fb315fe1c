package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/li-xiaohui/classeval/internal/domain"
)

// JSONSink writes the full structured report as report.json and, when a
// confusion matrix was built, the serialized matrix object as confusion.json.
type JSONSink struct {
	Dir string
}

func NewJSONSink(dir string) *JSONSink {
	return &JSONSink{Dir: dir}
}

func (s *JSONSink) Write(report *domain.EvalReport) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if err := s.writeFile("report.json", report); err != nil {
		return err
	}
	if report.Confusion != nil {
		if err := s.writeFile("confusion.json", report.Confusion); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONSink) writeFile(name string, v interface{}) error {
	path := filepath.Join(s.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
