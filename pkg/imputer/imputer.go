// Package imputer fills missing cells of a single column according to a
// strategy spec. Every function here is pure: the input column is never
// modified and numeric failures resolve to documented fallback values.
package imputer

import (
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// DefaultCategory is the fill used by cat_constant when no parameter is given
const DefaultCategory = "Unknown"

// strategyFunc returns the filled cells for a column already known to be
// compatible with the strategy
type strategyFunc func(cells []model.Cell, param string) []model.Cell

var strategies = map[model.StrategyKind]strategyFunc{
	model.Mean:            constantFill(func(c []model.Cell, _ string) model.Cell { return model.Number(meanOrZero(c)) }),
	model.Median:          constantFill(func(c []model.Cell, _ string) model.Cell { return model.Number(medianOrZero(c)) }),
	model.NumericConstant: constantFill(func(_ []model.Cell, p string) model.Cell { return model.Number(constantOrZero(p)) }),
	model.Mode:            constantFill(func(c []model.Cell, _ string) model.Cell { return modeOf(c) }),
	model.CatConstant:     constantFill(func(_ []model.Cell, p string) model.Cell { return categoryOrDefault(p) }),
	model.FFill:           func(c []model.Cell, _ string) []model.Cell { return ForwardFill(c) },
	model.BFill:           func(c []model.Cell, _ string) []model.Cell { return BackwardFill(c) },
}

// Apply returns a copy of col with missing cells filled according to spec.
// When the strategy does not fit the column dtype the column is returned
// unchanged with applied=false.
func Apply(col model.Column, spec model.StrategySpec) (model.Column, bool) {
	fn, ok := strategies[spec.Kind]
	if !ok || !spec.Kind.Accepts(col.Type()) {
		return col, false
	}
	return model.Column{Name: col.Name, Cells: fn(col.Cells, spec.Param)}, true
}

// FillValue returns the single value a strategy would write into missing
// cells of col. ffill and bfill have no single value and report false, as do
// strategies that do not fit the column.
func FillValue(col model.Column, spec model.StrategySpec) (model.Cell, bool) {
	if !spec.Kind.Accepts(col.Type()) {
		return model.Cell{}, false
	}
	switch spec.Kind {
	case model.Mean:
		return model.Number(meanOrZero(col.Cells)), true
	case model.Median:
		return model.Number(medianOrZero(col.Cells)), true
	case model.NumericConstant:
		return model.Number(constantOrZero(spec.Param)), true
	case model.Mode:
		return modeOf(col.Cells), true
	case model.CatConstant:
		return categoryOrDefault(spec.Param), true
	default:
		return model.Cell{}, false
	}
}

// constantFill adapts a fill-value function into a strategy that writes the
// same value into every missing cell
func constantFill(value func(cells []model.Cell, param string) model.Cell) strategyFunc {
	return func(cells []model.Cell, param string) []model.Cell {
		return fillMissing(cells, value(cells, param))
	}
}

func fillMissing(cells []model.Cell, v model.Cell) []model.Cell {
	out := make([]model.Cell, len(cells))
	for i, c := range cells {
		if c.IsMissing() {
			out[i] = v
		} else {
			out[i] = c
		}
	}
	return out
}

func categoryOrDefault(param string) model.Cell {
	if param == "" {
		return model.Text(DefaultCategory)
	}
	return model.Text(param)
}

// ForwardFill replaces each missing cell with the nearest preceding
// non-missing cell. Leading missing cells stay missing.
func ForwardFill(cells []model.Cell) []model.Cell {
	out := make([]model.Cell, len(cells))
	last := model.Missing()
	for i, c := range cells {
		if c.IsMissing() {
			out[i] = last
			continue
		}
		out[i] = c
		last = c
	}
	return out
}

// BackwardFill replaces each missing cell with the nearest following
// non-missing cell. Trailing missing cells stay missing.
func BackwardFill(cells []model.Cell) []model.Cell {
	out := make([]model.Cell, len(cells))
	next := model.Missing()
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].IsMissing() {
			out[i] = next
			continue
		}
		out[i] = cells[i]
		next = cells[i]
	}
	return out
}

// CountFilled returns how many cells were missing in before and are not in after
func CountFilled(before, after []model.Cell) int {
	n := 0
	for i := range before {
		if before[i].IsMissing() && i < len(after) && !after[i].IsMissing() {
			n++
		}
	}
	return n
}
