// Package summary computes data-quality summaries of a table.
package summary

import (
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/David-Botos/data-cleaning/pkg/dedupe"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// pctPrecision is the number of decimals kept in missing percentages
const pctPrecision = 2

// ComputeSummary returns per-column dtype and missing figures plus the number
// of rows that belong to a duplicate set. It does not modify t.
//
// For a table without rows the missing percentage is reported as 0.
func ComputeSummary(t *model.Table) model.SummaryReport {
	rows := t.NumRows()
	report := model.SummaryReport{
		Rows:       rows,
		Columns:    make([]model.ColumnSummary, 0, t.NumCols()),
		Duplicates: len(dedupe.FindDuplicates(t)),
	}

	for _, col := range t.Columns {
		missing := col.MissingCount()
		report.Columns = append(report.Columns, model.ColumnSummary{
			Name:       col.Name,
			Dtype:      col.Type().String(),
			Missing:    missing,
			MissingPct: MissingPct(missing, rows),
		})
	}
	return report
}

// MissingPct returns missing/total*100 rounded half-to-even to two decimals,
// or 0 when total is 0
func MissingPct(missing, total int) float64 {
	if total <= 0 {
		return 0
	}
	return scalar.RoundEven(float64(missing)/float64(total)*100, pctPrecision)
}

// Compare returns row, column and per-column missing counts of both tables
func Compare(original, working *model.Table) model.Comparison {
	return model.Comparison{
		Before: shape(original),
		After:  shape(working),
	}
}

func shape(t *model.Table) model.Shape {
	s := model.Shape{
		Rows:    t.NumRows(),
		Columns: t.NumCols(),
		Missing: make(map[string]int, t.NumCols()),
	}
	if t == nil {
		return s
	}
	for _, col := range t.Columns {
		s.Missing[col.Name] = col.MissingCount()
	}
	return s
}
