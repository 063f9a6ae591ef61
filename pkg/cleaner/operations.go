// pkg/cleaner/operations.go
package cleaner

import (
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/dedupe"
	"github.com/David-Botos/data-cleaning/pkg/imputer"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// ApplyResult reports the outcome of ApplyStrategies
type ApplyResult struct {
	Changed     bool               // at least one strategy was applied
	Applied     []string           // columns a strategy was applied to
	Skipped     []model.SkipNotice // strategies that could not be applied
	CellsFilled int                // missing cells replaced across all columns
}

// ApplyStrategies fills missing values of the working table column by column.
// A strategy that does not fit its column's dtype, or names a column that
// does not exist, is skipped with a notice; the remaining columns are still
// processed. Columns without an entry in specs are left untouched.
func (s *Session) ApplyStrategies(specs model.Strategies) (ApplyResult, error) {
	if !s.Loaded() {
		return ApplyResult{}, model.ErrEmptySession
	}

	var result ApplyResult
	for _, name := range s.strategyOrder(specs) {
		spec := specs[name]
		idx := s.working.ColumnIndex(name)
		if idx < 0 {
			result.Skipped = append(result.Skipped, model.SkipNotice{
				Column: name, Kind: spec.Kind, Reason: model.ReasonColumnNotFound,
			})
			s.metrics.RecordStrategy(spec.Kind, false, 0)
			continue
		}

		before := s.working.Columns[idx]
		fill, _ := imputer.FillValue(before, spec)
		after, applied := imputer.Apply(before, spec)
		if !applied {
			s.logger.Warn("Skipped strategy",
				zap.String("column", name),
				zap.String("strategy", spec.String()),
				zap.String("dtype", before.Type().String()),
				zap.String("category", model.ErrorCategoryStrategyMismatch.String()))
			result.Skipped = append(result.Skipped, model.SkipNotice{
				Column: name, Kind: spec.Kind, Reason: model.ReasonIncompatible,
			})
			s.metrics.RecordStrategy(spec.Kind, false, 0)
			continue
		}

		filled := imputer.CountFilled(before.Cells, after.Cells)
		s.working.Columns[idx] = after
		result.Changed = true
		result.Applied = append(result.Applied, name)
		result.CellsFilled += filled

		s.record(model.CleaningOperation{
			Operation:   model.OpImpute,
			Column:      name,
			Strategy:    spec.String(),
			FillValue:   fill.String(),
			CellsFilled: filled,
		})
		s.metrics.RecordStrategy(spec.Kind, true, filled)
	}

	s.logger.Info("Applied missing-value strategies",
		zap.Int("applied", len(result.Applied)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("cellsFilled", result.CellsFilled))
	return result, nil
}

// strategyOrder visits columns in table order, then names that are not in
// the table sorted alphabetically, so notices come out deterministically
func (s *Session) strategyOrder(specs model.Strategies) []string {
	order := make([]string, 0, len(specs))
	for _, name := range s.working.Names() {
		if _, ok := specs[name]; ok {
			order = append(order, name)
		}
	}

	var unknown []string
	for name := range specs {
		if s.working.ColumnIndex(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return append(order, unknown...)
}

// dropMissing removes working rows that contain any missing cell
func (s *Session) dropMissing() int {
	n := s.working.NumRows()
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !s.working.RowHasMissing(i) {
			keep = append(keep, i)
		}
	}
	s.working = s.working.SelectRows(keep)
	removed := n - len(keep)

	s.record(model.CleaningOperation{Operation: model.OpDropMissing, RowsAffected: removed})
	s.metrics.RecordRowsRemoved(model.OpDropMissing, removed)
	s.logger.Info("Dropped rows containing missing values",
		zap.Int("removed", removed),
		zap.Int("remaining", len(keep)))
	return removed
}

// removeDuplicates drops repeated working rows, keeping first occurrences
func (s *Session) removeDuplicates() int {
	deduped, removed := dedupe.RemoveDuplicates(s.working)
	s.working = deduped

	s.record(model.CleaningOperation{Operation: model.OpDropDuplicates, RowsAffected: removed})
	s.metrics.RecordRowsRemoved(model.OpDropDuplicates, removed)
	s.logger.Info("Removed duplicate rows",
		zap.Int("removed", removed),
		zap.Int("remaining", deduped.NumRows()))
	return removed
}
