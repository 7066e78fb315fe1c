// Package report writes evaluation results into flat artifacts. The core
// computes structured data only; sinks own their file handles, acquired and
// released within a single Write call.
package report

import "github.com/li-xiaohui/classeval/internal/domain"

type Sink interface {
	Write(report *domain.EvalReport) error
}

// Multi fans a report out to several sinks, stopping at the first failure.
type Multi []Sink

func (m Multi) Write(report *domain.EvalReport) error {
	for _, sink := range m {
		if err := sink.Write(report); err != nil {
			return err
		}
	}
	return nil
}
