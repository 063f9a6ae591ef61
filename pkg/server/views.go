// pkg/server/views.go
package server

import (
	"time"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/converter"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// TableView is the JSON form of a table preview
type TableView struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	TotalRows int             `json:"total_rows"`
}

func newTableView(t *model.Table, limit int) TableView {
	head := t.Head(limit)
	view := TableView{
		Columns:   head.Names(),
		Rows:      make([][]interface{}, head.NumRows()),
		TotalRows: t.NumRows(),
	}
	for i := range view.Rows {
		row := head.Row(i)
		values := make([]interface{}, len(row))
		for j, c := range row {
			values[j] = converter.ExportValue(c)
		}
		view.Rows[i] = values
	}
	return view
}

// OperationView is one entry of a session's cleaning history
type OperationView struct {
	ID           string    `json:"id"`
	Operation    string    `json:"operation"`
	Column       string    `json:"column,omitempty"`
	Strategy     string    `json:"strategy,omitempty"`
	FillValue    string    `json:"fill_value,omitempty"`
	RowsAffected int       `json:"rows_affected,omitempty"`
	CellsFilled  int       `json:"cells_filled,omitempty"`
	At           time.Time `json:"at"`
}

func newHistoryView(ops []model.CleaningOperation) []OperationView {
	views := make([]OperationView, len(ops))
	for i, op := range ops {
		views[i] = OperationView{
			ID:           op.ID,
			Operation:    op.Operation,
			Column:       op.Column,
			Strategy:     op.Strategy,
			FillValue:    op.FillValue,
			RowsAffected: op.RowsAffected,
			CellsFilled:  op.CellsFilled,
			At:           op.At,
		}
	}
	return views
}

// SessionView is the full state of a session
type SessionView struct {
	ID         string               `json:"id"`
	Source     string               `json:"source,omitempty"`
	Loaded     bool                 `json:"loaded"`
	Original   *TableView           `json:"original,omitempty"`
	Working    *TableView           `json:"working,omitempty"`
	Summary    *model.SummaryReport `json:"summary,omitempty"`
	Comparison *model.Comparison    `json:"comparison,omitempty"`
	History    []OperationView      `json:"history"`
}

// newSessionView snapshots s with previews limited to preview rows
func newSessionView(s *cleaner.Session, preview int) (SessionView, error) {
	view := SessionView{
		ID:      s.ID(),
		Source:  s.Source(),
		Loaded:  s.Loaded(),
		History: newHistoryView(s.History()),
	}
	if !s.Loaded() {
		return view, nil
	}

	original, err := s.Original()
	if err != nil {
		return view, err
	}
	working, err := s.Working()
	if err != nil {
		return view, err
	}
	report, err := s.Summary()
	if err != nil {
		return view, err
	}
	comparison, err := s.Comparison()
	if err != nil {
		return view, err
	}

	ov := newTableView(original, preview)
	wv := newTableView(working, preview)
	view.Original = &ov
	view.Working = &wv
	view.Summary = &report
	view.Comparison = &comparison
	return view, nil
}

// LoadView answers session creation and source replacement
type LoadView struct {
	ID                string               `json:"id"`
	Source            string               `json:"source,omitempty"`
	Reinitialized     bool                 `json:"reinitialized"`
	DuplicatesRemoved int                  `json:"duplicates_removed"`
	MissingRemoved    int                  `json:"missing_removed"`
	Summary           *model.SummaryReport `json:"summary,omitempty"`
}

// DuplicatesView lists a sample of the duplicated rows
type DuplicatesView struct {
	Count   int       `json:"count"`
	Indices []int     `json:"indices"`
	Sample  TableView `json:"sample"`
}

// StrategyRequest selects the strategy for one column
type StrategyRequest struct {
	Column string `json:"column" validate:"required"`
	Kind   string `json:"kind" validate:"required,oneof=mean median numeric_constant mode ffill bfill cat_constant"`
	Param  string `json:"param"`
}

// StrategiesRequest is the body of POST /sessions/{id}/strategies
type StrategiesRequest struct {
	Strategies []StrategyRequest `json:"strategies" validate:"required,min=1,dive"`
}

// ApplyView reports the outcome of applying strategies
type ApplyView struct {
	Changed     bool                `json:"changed"`
	Applied     []string            `json:"applied"`
	Skipped     []string            `json:"skipped"`
	CellsFilled int                 `json:"cells_filled"`
	Summary     model.SummaryReport `json:"summary"`
}

// RowsRemovedView answers the row-level operations
type RowsRemovedView struct {
	Removed int                 `json:"removed"`
	Summary model.SummaryReport `json:"summary"`
}
