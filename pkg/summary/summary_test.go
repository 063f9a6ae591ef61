package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

func TestComputeSummary(t *testing.T) {
	tbl, err := model.NewTable(
		model.Column{Name: "age", Cells: []model.Cell{
			model.Number(30), model.Missing(), model.Number(30), model.Number(41),
		}},
		model.Column{Name: "city", Cells: []model.Cell{
			model.Text("Oslo"), model.Missing(), model.Text("Oslo"), model.Missing(),
		}},
	)
	require.NoError(t, err)

	report := ComputeSummary(tbl)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 2, report.Duplicates)
	require.Len(t, report.Columns, 2)

	age, ok := report.Column("age")
	require.True(t, ok)
	assert.Equal(t, "numeric", age.Dtype)
	assert.Equal(t, 1, age.Missing)
	assert.Equal(t, 25.0, age.MissingPct)

	city, ok := report.Column("city")
	require.True(t, ok)
	assert.Equal(t, "categorical", city.Dtype)
	assert.Equal(t, 2, city.Missing)
	assert.Equal(t, 50.0, city.MissingPct)

	assert.Equal(t, 3, report.TotalMissing())
}

func TestMissingPct(t *testing.T) {
	tests := []struct {
		name    string
		missing int
		total   int
		want    float64
	}{
		{"none", 0, 7, 0},
		{"all", 7, 7, 100},
		{"one third", 1, 3, 33.33},
		{"two thirds", 2, 3, 66.67},
		{"one seventh", 1, 7, 14.29},
		{"half rounds to even", 1, 32, 3.12},
		{"half rounds up to even", 3, 32, 9.38},
		{"empty table", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingPct(tt.missing, tt.total)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestComputeSummaryEmptyTable(t *testing.T) {
	tbl, err := model.NewTable(model.Column{Name: "a"})
	require.NoError(t, err)

	report := ComputeSummary(tbl)
	assert.Zero(t, report.Rows)
	assert.Zero(t, report.Duplicates)
	require.Len(t, report.Columns, 1)
	assert.Zero(t, report.Columns[0].MissingPct)
}

func TestCompare(t *testing.T) {
	before, err := model.NewTable(
		model.Column{Name: "a", Cells: []model.Cell{model.Missing(), model.Number(1), model.Missing()}},
	)
	require.NoError(t, err)
	after := before.SelectRows([]int{1})

	cmp := Compare(before, after)
	assert.Equal(t, 3, cmp.Before.Rows)
	assert.Equal(t, 1, cmp.Before.Columns)
	assert.Equal(t, 2, cmp.Before.Missing["a"])
	assert.Equal(t, 1, cmp.After.Rows)
	assert.Equal(t, 0, cmp.After.Missing["a"])
}
