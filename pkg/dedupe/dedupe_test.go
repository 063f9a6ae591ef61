package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

func mustTable(t *testing.T, cols ...model.Column) *model.Table {
	t.Helper()
	tbl, err := model.NewTable(cols...)
	require.NoError(t, err)
	return tbl
}

func sampleTable(t *testing.T) *model.Table {
	return mustTable(t,
		model.Column{Name: "id", Cells: []model.Cell{
			model.Number(1), model.Number(1), model.Number(2), model.Number(3), model.Number(2), model.Number(1),
		}},
		model.Column{Name: "label", Cells: []model.Cell{
			model.Text("a"), model.Text("a"), model.Missing(), model.Text("c"), model.Missing(), model.Text("a"),
		}},
	)
}

func TestFindDuplicatesKeepsAllMembers(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, []int{0, 1, 2, 4, 5}, FindDuplicates(tbl))
}

func TestFindDuplicatesNone(t *testing.T) {
	tbl := mustTable(t, model.Column{Name: "a", Cells: []model.Cell{model.Number(1), model.Number(2)}})
	assert.Empty(t, FindDuplicates(tbl))
	assert.Empty(t, DuplicateGroups(tbl))
}

func TestDuplicateGroups(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, [][]int{{0, 1, 5}, {2, 4}}, DuplicateGroups(tbl))
}

func TestRemoveDuplicatesKeepsFirstOccurrence(t *testing.T) {
	tbl := mustTable(t,
		model.Column{Name: "n", Cells: []model.Cell{model.Number(1), model.Number(1), model.Number(2)}},
		model.Column{Name: "s", Cells: []model.Cell{model.Text("a"), model.Text("a"), model.Text("b")}},
	)

	out, removed := RemoveDuplicates(tbl)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, []model.Cell{model.Number(1), model.Text("a")}, out.Row(0))
	assert.Equal(t, []model.Cell{model.Number(2), model.Text("b")}, out.Row(1))
	assert.Equal(t, 3, tbl.NumRows(), "input table must not change")
}

func TestRemoveDuplicatesIsIdempotent(t *testing.T) {
	once, _ := RemoveDuplicates(sampleTable(t))
	twice, removed := RemoveDuplicates(once)
	assert.Zero(t, removed)
	assert.True(t, once.Equal(twice))
}

func TestFindAndRemoveAgree(t *testing.T) {
	tbl := sampleTable(t)
	dups := FindDuplicates(tbl)
	groups := DuplicateGroups(tbl)

	out, removed := RemoveDuplicates(tbl)
	assert.Equal(t, tbl.NumRows()-(len(dups)-len(groups)), out.NumRows())
	assert.Equal(t, tbl.NumRows()-out.NumRows(), removed)
}
