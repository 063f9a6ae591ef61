package converter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

func TestParseCell(t *testing.T) {
	c := NewCellConverter(zap.NewNop())

	tests := []struct {
		raw  string
		want model.Cell
	}{
		{"", model.Missing()},
		{"  ", model.Missing()},
		{"NA", model.Missing()},
		{"null", model.Missing()},
		{"NaN", model.Missing()},
		{"42", model.Number(42)},
		{" 3.5 ", model.Number(3.5)},
		{"-1e3", model.Number(-1000)},
		{"Oslo", model.Text("Oslo")},
		{" padded ", model.Text("padded")},
		{"12abc", model.Text("12abc")},
		{"0x1p4", model.Text("0x1p4")},
		{"0XFF", model.Text("0XFF")},
		{"1_0", model.Text("1_0")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ParseCell(tt.raw))
		})
	}
}

func TestParseCellCustomConfig(t *testing.T) {
	c := NewCellConverterWithConfig(nil, CellConverterConfig{
		NullTokens:   []string{"-"},
		ParseNumbers: false,
	})
	assert.Equal(t, model.Missing(), c.ParseCell("-"))
	assert.Equal(t, model.Text("42"), c.ParseCell("42"))
	assert.Equal(t, model.Text(""), c.ParseCell(""))
}

func TestFromValue(t *testing.T) {
	c := NewCellConverter(zap.NewNop())
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, model.Missing(), c.FromValue(nil))
	assert.Equal(t, model.Number(7), c.FromValue(int64(7)))
	assert.Equal(t, model.Number(1.5), c.FromValue(float32(1.5)))
	assert.Equal(t, model.Missing(), c.FromValue(math.NaN()))
	assert.Equal(t, model.Number(12.25), c.FromValue([]byte("12.25")))
	assert.Equal(t, model.Text("abc"), c.FromValue("abc"))
	assert.Equal(t, model.Text("true"), c.FromValue(true))
	assert.Equal(t, model.Text("2024-03-01T12:00:00Z"), c.FromValue(ts))
	assert.Equal(t, model.Text(`{"a":1}`), c.FromValue(map[string]int{"a": 1}))
}

func TestTablePadsShortRecords(t *testing.T) {
	c := NewCellConverter(zap.NewNop())
	tbl, err := c.Table([]string{"a", "b"}, [][]string{
		{"1", "x"},
		{"2"},
		{"", "y", "extra"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())

	b, _ := tbl.Column("b")
	assert.True(t, b.Cells[1].IsMissing())
	a, _ := tbl.Column("a")
	assert.Equal(t, model.Numeric, a.Type())
	assert.True(t, a.Cells[2].IsMissing())
}

func TestExportValue(t *testing.T) {
	assert.Nil(t, ExportValue(model.Missing()))
	assert.Equal(t, 2.5, ExportValue(model.Number(2.5)))
	assert.Equal(t, "x", ExportValue(model.Text("x")))
}

func TestConfigWithNullTokens(t *testing.T) {
	c := NewCellConverterWithConfig(zap.NewNop(), ConfigWithNullTokens("-", "?"))
	assert.Equal(t, model.Missing(), c.ParseCell("?"))
	assert.Equal(t, model.Missing(), c.ParseCell("NA"))
	assert.Len(t, DefaultNullTokens, 19)
}
