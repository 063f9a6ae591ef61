package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

const peopleCSV = "age,city\n20,Oslo\n,Rome\n40,\n20,Oslo\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, "inspect", path, "--show-duplicates")
	require.NoError(t, err)

	assert.Contains(t, out, "Source: people.csv")
	assert.Contains(t, out, "Rows: 4  Columns: 2  Duplicate rows: 2")
	assert.Regexp(t, `age\s+numeric\s+1\s+25\.00`, out)
	assert.Regexp(t, `city\s+categorical\s+1\s+25\.00`, out)
	assert.Contains(t, out, "Duplicate row indices: [0 3]")
}

func TestInspectJSON(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, "inspect", path, "--json")
	require.NoError(t, err)

	var report model.SummaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 2, report.Duplicates)
	require.Len(t, report.Columns, 2)
	assert.Equal(t, "age", report.Columns[0].Name)
}

func TestInspectRequiresSource(t *testing.T) {
	_, err := run(t, "inspect")
	require.ErrorIs(t, err, errNoSource)
}

func TestSourceFlagsAreExclusive(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, err := run(t, "inspect", path, "--pg-table", "public.people")
	require.Error(t, err)

	_, err = run(t, "inspect", "--pg-table", "a", "--sf-table", "b")
	require.Error(t, err)
}

func TestCleanWithFlags(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	outPath := filepath.Join(t.TempDir(), "out", "cleaned.csv")

	out, err := run(t, "clean", path,
		"--dedupe",
		"--strategy", "age=median",
		"--strategy", "city=cat_constant:Unknown",
		"--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Removed 1 duplicate rows.")
	assert.Contains(t, out, "Filled 2 missing cells in 2 columns.")
	assert.Regexp(t, `rows\s+4\s+3`, out)
	assert.Regexp(t, `missing age\s+1\s+0`, out)
	assert.Contains(t, out, "Wrote 3 rows to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "age,city\n20,Oslo\n30,Rome\n40,Unknown\n", string(data))
}

func TestCleanReportsSkippedStrategies(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, "clean", path, "--strategy", "city=mean", "--strategy", "zip=mode")
	require.NoError(t, err)

	assert.Contains(t, out, "Skipped city: incompatible strategy or dtype.")
	assert.Contains(t, out, "Skipped zip: column not found.")
	assert.Contains(t, out, "Filled 0 missing cells in 0 columns.")
}

func TestCleanWithPlan(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	plan := writeFile(t, "plan.toml", `
remove_duplicates = true

[columns.age]
strategy = "numeric_constant"
value = "0"
`)
	outPath := filepath.Join(t.TempDir(), "cleaned.xlsx")

	_, err := run(t, "clean", path, "--plan", plan, "--dropna", "--out", outPath)
	require.NoError(t, err)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"age", "city"}, {"20", "Oslo"}}, rows)
}

func TestCleanRejectsBadStrategy(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, err := run(t, "clean", path, "--strategy", "age=average")
	require.Error(t, err)

	_, err = run(t, "clean", path, "--plan", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestExplicitEnvFileMustExist(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, err := run(t, "inspect", path, "--env-file", filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}

func TestEnvFileIsLoaded(t *testing.T) {
	path := writeFile(t, "people.csv", "age\n-\n3\n")
	env := writeFile(t, "test.env", "DATACLEANER_NULL_TOKENS=-\n")
	t.Setenv("DATACLEANER_NULL_TOKENS", "")
	require.NoError(t, os.Unsetenv("DATACLEANER_NULL_TOKENS"))

	out, err := run(t, "inspect", path, "--env-file", env)
	require.NoError(t, err)
	assert.Regexp(t, `age\s+numeric\s+1\s+50\.00`, out)
}

func TestSplitTableRef(t *testing.T) {
	schema, table := splitTableRef("public.people")
	assert.Equal(t, "public", schema)
	assert.Equal(t, "people", table)

	schema, table = splitTableRef("people")
	assert.Empty(t, schema)
	assert.Equal(t, "people", table)
}
