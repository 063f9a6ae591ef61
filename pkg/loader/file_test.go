package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/converter"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

func newTestLoader(t *testing.T) *FileLoader {
	t.Helper()
	l, err := NewFileLoader(zap.NewNop())
	require.NoError(t, err)
	return l
}

func TestNewFileLoaderRequiresLogger(t *testing.T) {
	_, err := NewFileLoader(nil)
	assert.Error(t, err)

	_, err = NewFileLoaderWithConverter(zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	l := newTestLoader(t)
	data := "\ufeffage, city ,score\n20,Oslo,1.5\n,Rome\nNA,  ,3\n"

	tbl, err := l.LoadReader("people.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "city", "score"}, tbl.Names())
	assert.Equal(t, 3, tbl.NumRows())

	age, _ := tbl.Column("age")
	assert.Equal(t, model.Numeric, age.Type())
	assert.Equal(t, 2, age.MissingCount())

	city, _ := tbl.Column("city")
	assert.Equal(t, model.Categorical, city.Type())
	assert.Equal(t, []model.Cell{model.Text("Oslo"), model.Text("Rome"), model.Missing()}, city.Cells)

	score, _ := tbl.Column("score")
	assert.True(t, score.Cells[1].IsMissing(), "short rows are padded")
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	l := newTestLoader(t)
	tbl, err := l.LoadReader("empty.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}

func TestLoadErrors(t *testing.T) {
	l := newTestLoader(t)

	tests := []struct {
		name    string
		content string
		target  error
	}{
		{name: "data.txt", content: "a,b", target: ErrUnsupportedFormat},
		{name: "blank.csv", content: "", target: ErrNoColumns},
		{name: "broken.csv", content: "a,b\n\"unterminated,1\n"},
		{name: "garbage.xlsx", content: "not a zip archive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.LoadReader(tt.name, strings.NewReader(tt.content))
			require.Error(t, err)

			var loadErr *model.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.name, loadErr.Source)
			assert.True(t, strings.HasPrefix(err.Error(), "failed to read "+tt.name+": "))
			assert.Equal(t, model.ErrorCategoryLoad, model.Category(err))
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"id", "name", "name"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, "Ada", "x"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{2}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{3.25, "NA", "z"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	l := newTestLoader(t)
	tbl, err := l.LoadReader("book.XLSX", &buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "name.1"}, tbl.Names())
	assert.Equal(t, 3, tbl.NumRows())

	id, _ := tbl.Column("id")
	assert.Equal(t, []model.Cell{model.Number(1), model.Number(2), model.Number(3.25)}, id.Cells)

	name, _ := tbl.Column("name")
	assert.Equal(t, []model.Cell{model.Text("Ada"), model.Missing(), model.Missing()}, name.Cells)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,a\n1,a\n"), 0o600))

	l := newTestLoader(t)
	tbl, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())

	_, err = l.LoadFile(filepath.Join(dir, "nope.csv"))
	var loadErr *model.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "nope.csv", loadErr.Source)
}

func TestCustomNullTokens(t *testing.T) {
	cfg := converter.DefaultConfig()
	cfg.NullTokens = append(cfg.NullTokens, "-")
	l, err := NewFileLoaderWithConverter(zap.NewNop(), converter.NewCellConverterWithConfig(zap.NewNop(), cfg))
	require.NoError(t, err)

	tbl, err := l.LoadReader("dash.csv", strings.NewReader("v\n-\n4\n"))
	require.NoError(t, err)
	v, _ := tbl.Column("v")
	assert.Equal(t, 1, v.MissingCount())
}

func TestHeaderNames(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "Unnamed: 1", "a.1", "a.2", "b"},
		HeaderNames([]string{"a", " ", "a", "a", "b "}))
	assert.Equal(t,
		[]string{"a", "a.1", "a.1.1"},
		HeaderNames([]string{"a", "a", "a.1"}))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("x.csv"))
	assert.True(t, IsSupported("X.XLSX"))
	assert.False(t, IsSupported("x.xls"))
	assert.False(t, IsSupported("x"))
}
