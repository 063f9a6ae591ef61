package model

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable(
		Column{Name: "a", Cells: []Cell{Number(1), Number(2)}},
		Column{Name: "b", Cells: []Cell{Text("x")}},
	)
	assert.ErrorIs(t, err, ErrRaggedTable)

	_, err = NewTable(
		Column{Name: "a", Cells: []Cell{Number(1)}},
		Column{Name: "a", Cells: []Cell{Number(2)}},
	)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = NewTable(Column{Cells: []Cell{Number(1)}})
	assert.ErrorIs(t, err, ErrEmptyColumnName)

	tbl, err := NewTable(
		Column{Name: "a", Cells: []Cell{Number(1), Missing()}},
		Column{Name: "b", Cells: []Cell{Text("x"), Text("y")}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		want  ColumnType
	}{
		{"numbers", []Cell{Number(1), Number(2.5)}, Numeric},
		{"numbers with missing", []Cell{Missing(), Number(2)}, Numeric},
		{"all missing", []Cell{Missing(), Missing()}, Numeric},
		{"text", []Cell{Text("a"), Missing()}, Categorical},
		{"mixed", []Cell{Number(1), Text("a")}, Categorical},
		{"no rows", nil, Categorical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := Column{Name: "c", Cells: tt.cells}
			assert.Equal(t, tt.want, col.Type())
		})
	}
}

func TestColumnTypeFollowsValues(t *testing.T) {
	col := Column{Name: "c", Cells: []Cell{Number(1), Missing()}}
	assert.Equal(t, Numeric, col.Type())

	col.Cells[1] = Text("Unknown")
	assert.Equal(t, Categorical, col.Type())
}

func TestCellEquality(t *testing.T) {
	assert.True(t, Missing().Equal(Missing()))
	assert.True(t, Number(math.Copysign(0, -1)).Equal(Number(0)))
	assert.False(t, Number(1).Equal(Text("1")))
	assert.Equal(t, Number(math.Copysign(0, -1)).Key(), Number(0).Key())
	assert.NotEqual(t, Text("1").Key(), Number(1).Key())
	assert.Equal(t, "", Missing().String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "3", Number(3).String())
}

func TestRowKeyIsUnambiguous(t *testing.T) {
	tbl, err := NewTable(
		Column{Name: "a", Cells: []Cell{Text("x|y"), Text("x")}},
		Column{Name: "b", Cells: []Cell{Text("z"), Text("y|z")}},
	)
	require.NoError(t, err)
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))
}

func TestCloneIsDeep(t *testing.T) {
	tbl, err := NewTable(Column{Name: "a", Cells: []Cell{Number(1), Missing()}})
	require.NoError(t, err)

	cp := tbl.Clone()
	require.True(t, cp.Equal(tbl))

	cp.Columns[0].Cells[1] = Number(9)
	assert.False(t, cp.Equal(tbl))
	assert.True(t, tbl.Columns[0].Cells[1].IsMissing())
}

func TestSelectRowsAndHead(t *testing.T) {
	tbl, err := NewTable(
		Column{Name: "a", Cells: []Cell{Number(1), Number(2), Number(3)}},
		Column{Name: "b", Cells: []Cell{Text("x"), Missing(), Text("z")}},
	)
	require.NoError(t, err)

	sel := tbl.SelectRows([]int{2, 0})
	assert.Equal(t, 2, sel.NumRows())
	assert.Equal(t, []Cell{Number(3), Text("z")}, sel.Row(0))
	assert.True(t, tbl.RowHasMissing(1))
	assert.False(t, tbl.RowHasMissing(0))

	assert.Equal(t, 2, tbl.Head(2).NumRows())
	assert.Equal(t, 3, tbl.Head(10).NumRows())
}

func TestParseStrategyKind(t *testing.T) {
	for _, k := range StrategyKinds {
		parsed, err := ParseStrategyKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseStrategyKind("constant")
	assert.Error(t, err)

	assert.True(t, Mean.Accepts(Numeric))
	assert.False(t, Mean.Accepts(Categorical))
	assert.True(t, FFill.Accepts(Categorical))
	assert.False(t, CatConstant.Accepts(Numeric))
	assert.Equal(t, "cat_constant:n/a", StrategySpec{Kind: CatConstant, Param: "n/a"}.String())
}

func TestErrorCategory(t *testing.T) {
	loadErr := NewLoadError("data.bin", errors.New("unsupported file type"))
	assert.Equal(t, ErrorCategoryLoad, Category(loadErr))
	assert.Equal(t, "failed to read data.bin: unsupported file type", loadErr.Error())
	assert.Equal(t, ErrorCategoryEmptyState, Category(ErrEmptySession))
	assert.Equal(t, ErrorCategoryEmptyState, Category(fmt.Errorf("reset: %w", ErrEmptySession)))
	assert.Equal(t, ErrorCategoryNone, Category(errors.New("anything else")))
	assert.Equal(t, ErrorCategoryNone, Category(nil))
	assert.Equal(t, "StrategyMismatch", ErrorCategoryStrategyMismatch.String())
	assert.Equal(t, "Skipped age: incompatible strategy or dtype.",
		SkipNotice{Column: "age", Kind: Mode, Reason: ReasonIncompatible}.String())
}
