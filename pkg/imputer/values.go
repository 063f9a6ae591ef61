// pkg/imputer/values.go
package imputer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

// numbers collects the non-missing numeric values of cells
func numbers(cells []model.Cell) []float64 {
	data := make([]float64, 0, len(cells))
	for _, c := range cells {
		if c.IsNumber() {
			data = append(data, c.Num)
		}
	}
	return data
}

// meanOf returns the arithmetic mean of the non-missing values, or false
// when there is none
func meanOf(cells []model.Cell) (float64, bool) {
	mean, err := stats.Mean(numbers(cells))
	if err != nil || math.IsNaN(mean) {
		return 0, false
	}
	return mean, true
}

// medianOf returns the median of the non-missing values, or false when there is none
func medianOf(cells []model.Cell) (float64, bool) {
	median, err := stats.Median(numbers(cells))
	if err != nil || math.IsNaN(median) {
		return 0, false
	}
	return median, true
}

// parseConstant parses a user supplied numeric constant. An empty parameter
// yields 0 with ok=true; text that is not a number yields false.
func parseConstant(param string) (float64, bool) {
	param = strings.TrimSpace(param)
	if param == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(param, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func meanOrZero(cells []model.Cell) float64 {
	v, ok := meanOf(cells)
	if !ok {
		return 0
	}
	return v
}

func medianOrZero(cells []model.Cell) float64 {
	v, ok := medianOf(cells)
	if !ok {
		return 0
	}
	return v
}

func constantOrZero(param string) float64 {
	v, ok := parseConstant(param)
	if !ok {
		return 0
	}
	return v
}

// modeOf returns the most frequent non-missing cell. Ties go to the smallest
// value, numbers ordering before text. With no non-missing cell the result is
// an empty text cell.
func modeOf(cells []model.Cell) model.Cell {
	counts := make(map[string]int)
	values := make(map[string]model.Cell)
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		k := c.Key()
		counts[k]++
		values[k] = c
	}
	if len(counts) == 0 {
		return model.Text("")
	}

	best := 0
	var tied []model.Cell
	for k, n := range counts {
		switch {
		case n > best:
			best = n
			tied = append(tied[:0], values[k])
		case n == best:
			tied = append(tied, values[k])
		}
	}
	sort.Slice(tied, func(i, j int) bool { return less(tied[i], tied[j]) })
	return tied[0]
}

func less(a, b model.Cell) bool {
	if a.Kind != b.Kind {
		return a.Kind == model.CellNumber
	}
	if a.Kind == model.CellNumber {
		return a.Num < b.Num
	}
	return a.Text < b.Text
}
