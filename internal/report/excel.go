package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/li-xiaohui/classeval/internal/domain"
)

// ExcelSink writes curves.xlsx: one sheet of numeric series per metric
// family plus summary and confusion sheets. Chart rendering stays with the
// external renderer; the workbook carries data only.
type ExcelSink struct {
	Dir string
}

func NewExcelSink(dir string) *ExcelSink {
	return &ExcelSink{Dir: dir}
}

func (s *ExcelSink) Write(report *domain.EvalReport) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	var curves []domain.Curve
	var summaries []domain.ScalarSummary
	if report.Binary != nil {
		curves = append(curves, collectBinaryCurves(report.Binary)...)
		summaries = append(summaries, collectSummaries(report.Binary)...)
	}
	if report.Multiclass != nil {
		for _, class := range report.Multiclass.Classes {
			sub, ok := report.Multiclass.PerClass[class]
			if !ok {
				continue
			}
			curves = append(curves, collectBinaryCurves(sub)...)
			summaries = append(summaries, collectSummaries(sub)...)
		}
	}

	if err := s.writeCurves(f, curves); err != nil {
		return err
	}
	if err := s.writeSummaries(f, summaries); err != nil {
		return err
	}
	if report.Confusion != nil {
		if err := s.writeConfusion(f, report.Confusion); err != nil {
			return err
		}
	}
	f.DeleteSheet("Sheet1")

	path := filepath.Join(s.Dir, "curves.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (s *ExcelSink) writeCurves(f *excelize.File, curves []domain.Curve) error {
	rows := make(map[domain.MetricKind]int)
	for _, c := range curves {
		sheet := string(c.Kind)
		if rows[c.Kind] == 0 {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("new sheet %s: %w", sheet, err)
			}
			if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"class", "quarter", "cutoff", "x", "y"}); err != nil {
				return fmt.Errorf("header %s: %w", sheet, err)
			}
			rows[c.Kind] = 1
		}
		for _, p := range c.Points {
			rows[c.Kind]++
			cell := fmt.Sprintf("A%d", rows[c.Kind])
			values := []interface{}{c.Class, c.Quarter, cellValue(p.Cutoff), cellValue(p.X), cellValue(p.Y)}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("row %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func (s *ExcelSink) writeSummaries(f *excelize.File, summaries []domain.ScalarSummary) error {
	const sheet = "summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	header := []interface{}{"class", "quarter", "auc", "max_f", "max_f_cutoff", "max_acc", "max_acc_cutoff"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("header %s: %w", sheet, err)
	}
	for i, sm := range summaries {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			sm.Class, sm.Quarter,
			cellValue(sm.AUC),
			cellValue(sm.MaxFScore), cellValue(sm.MaxFScoreCutoff),
			cellValue(sm.MaxAccuracy), cellValue(sm.MaxAccuracyCutoff),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("row %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func (s *ExcelSink) writeConfusion(f *excelize.File, c *domain.ConfusionReport) error {
	const sheet = "confusion"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	header := []interface{}{"predicted \\ actual"}
	for _, class := range c.Matrix.Classes {
		header = append(header, class)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("header %s: %w", sheet, err)
	}
	for i, class := range c.Matrix.Classes {
		values := []interface{}{class}
		for j := range c.Matrix.Classes {
			values = append(values, c.Matrix.Cells[i][j])
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("row %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func collectBinaryCurves(b *domain.BinaryReport) []domain.Curve {
	var curves []domain.Curve
	curves = append(curves, b.AccuracyCurves...)
	curves = append(curves, b.ROCCurves...)
	curves = append(curves, b.FScoreCurves...)
	curves = append(curves,
		b.Combined.Accuracy, b.Combined.ROC, b.Combined.FScore,
		b.Combined.PrecisionRecall, b.Combined.SensSpec)
	return curves
}

func collectSummaries(b *domain.BinaryReport) []domain.ScalarSummary {
	summaries := append([]domain.ScalarSummary{}, b.Summaries...)
	return append(summaries, b.Combined.Summary)
}

// cellValue keeps xlsx cells numeric where possible; NaN and infinities are
// written as their text form since spreadsheets have no representation.
func cellValue(f domain.Float) interface{} {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatFloat(f)
	}
	return v
}
