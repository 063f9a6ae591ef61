// pkg/model/summary.go
package model

// ColumnSummary holds data-quality figures for one column
type ColumnSummary struct {
	Name       string  `json:"name"`
	Dtype      string  `json:"dtype"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
}

// SummaryReport is the data-quality summary of a table. Duplicates is an
// aggregate over whole rows and is kept apart from the per-column entries.
type SummaryReport struct {
	Rows       int             `json:"rows"`
	Columns    []ColumnSummary `json:"columns"`
	Duplicates int             `json:"duplicates"`
}

// Column looks up the summary of the named column
func (r SummaryReport) Column(name string) (ColumnSummary, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// TotalMissing returns the number of missing cells across all columns
func (r SummaryReport) TotalMissing() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Missing
	}
	return total
}

// Shape describes the size and per-column missing counts of one table
type Shape struct {
	Rows    int            `json:"rows"`
	Columns int            `json:"columns"`
	Missing map[string]int `json:"missing"`
}

// Comparison is the before/after view of the original and working tables
type Comparison struct {
	Before Shape `json:"before"`
	After  Shape `json:"after"`
}
