// classeval evaluates a CSV prediction table in one shot and writes the
// report artifacts: results.txt, report.json, confusion.json, curves.xlsx.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/li-xiaohui/classeval/internal/dataset"
	"github.com/li-xiaohui/classeval/internal/evaluator"
	"github.com/li-xiaohui/classeval/internal/report"
)

func main() {
	var (
		input    = flag.String("input", "", "path to the prediction CSV (required)")
		out      = flag.String("out", "./results", "directory for report artifacts")
		positive = flag.String("positive", "1", "positive label for binary evaluation")
		classes  = flag.String("classes", "", "comma-separated class labels for multiclass evaluation")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		log.Fatal("missing -input")
	}

	var classList []string
	if *classes != "" {
		for _, c := range strings.Split(*classes, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				classList = append(classList, trimmed)
			}
		}
	}

	table, err := dataset.ReadFile(*input, classList)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *input, err)
	}

	result, err := evaluator.Run(table, evaluator.Options{
		PositiveLabel: *positive,
		Classes:       classList,
	})
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	sinks := report.Multi{
		report.NewTextSink(*out),
		report.NewJSONSink(*out),
		report.NewExcelSink(*out),
	}
	if err := sinks.Write(result); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.Printf("Run %s: %d rows over %d quarters, artifacts in %s",
		result.Run.ID, result.Run.Rows, result.Run.Quarters, *out)
}
