package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.Equal(t, 20, cfg.DuplicateSampleRows)
	assert.False(t, cfg.CSVBOM)
	assert.Nil(t, cfg.NullTokens)
	assert.Equal(t, 120*time.Second, cfg.QueryTimeout)
	assert.Zero(t, cfg.UploadRPS)
	assert.Equal(t, 5, cfg.UploadBurst)
	assert.Nil(t, cfg.Postgres)
	assert.Nil(t, cfg.Snowflake)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DATACLEANER_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("DATACLEANER_PREVIEW_ROWS", "5")
	t.Setenv("DATACLEANER_CSV_BOM", "true")
	t.Setenv("DATACLEANER_NULL_TOKENS", `"-", ?, `)
	t.Setenv("DATACLEANER_MAX_UPLOAD_MB", "not-a-number")
	t.Setenv("DATACLEANER_UPLOAD_RPS", "2.5")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.True(t, cfg.CSVBOM)
	assert.Equal(t, []string{"-", "?"}, cfg.NullTokens)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 2.5, cfg.UploadRPS)
}

func TestValidate(t *testing.T) {
	t.Setenv("DATACLEANER_MAX_UPLOAD_MB", "0")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("DATACLEANER_MAX_UPLOAD_MB", "10")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log format")

	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DATACLEANER_UPLOAD_RPS", "1")
	t.Setenv("DATACLEANER_UPLOAD_BURST", "0")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload burst")
}

func TestLoadDatabases(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	t.Setenv("POSTGRES_USER", "")
	err = cfg.LoadDatabases("postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")

	t.Setenv("POSTGRES_USER", "cleaner")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "analytics")
	t.Setenv("POSTGRES_PORT", "6543")
	require.NoError(t, cfg.LoadDatabases("postgres"))
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t,
		"host=localhost port=6543 user=cleaner password=secret dbname=analytics sslmode=disable",
		cfg.Postgres.ConnectionString())
	assert.Nil(t, cfg.Snowflake)

	assert.Error(t, cfg.LoadDatabases("mysql"))
}

func TestLoadSnowflakeConfig(t *testing.T) {
	t.Setenv("SNOWFLAKE_USER", "u")
	t.Setenv("SNOWFLAKE_PASSWORD", "p")
	t.Setenv("SNOWFLAKE_ACCOUNT", "acct")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "wh")
	t.Setenv("SNOWFLAKE_DATABASE", "RAW")
	t.Setenv("SNOWFLAKE_AUTHENTICATOR", "bogus")

	cfg, err := LoadSnowflakeConfig()
	require.NoError(t, err)
	assert.Equal(t, "PUBLIC", cfg.Schema)

	dsn := cfg.DSNConfig()
	assert.Equal(t, "acct", dsn.Account)
	assert.Equal(t, "RAW", dsn.Database)
	assert.Equal(t, authTypes["snowflake"], dsn.Authenticator)
}

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(`
remove_duplicates = true

[columns.age]
strategy = "median"

[columns.city]
strategy = "cat_constant"
value = "Unknown"
`))
	require.NoError(t, err)

	assert.Equal(t, model.LoadOptions{RemoveDuplicates: true}, plan.LoadOptions())

	specs, err := plan.Strategies()
	require.NoError(t, err)
	assert.Equal(t, model.Strategies{
		"age":  {Kind: model.Median},
		"city": {Kind: model.CatConstant, Param: "Unknown"},
	}, specs)
}

func TestParsePlanErrors(t *testing.T) {
	_, err := ParsePlan([]byte(`[columns.age]
strategy = "average"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "age"`)

	_, err = ParsePlan([]byte(`remove_duplicates = `))
	require.Error(t, err)
}

func TestLoadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte("drop_missing = true\n"), 0o600))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.True(t, plan.DropMissing)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseStrategyFlag(t *testing.T) {
	tests := []struct {
		in     string
		column string
		spec   model.StrategySpec
		err    bool
	}{
		{in: "age=mean", column: "age", spec: model.StrategySpec{Kind: model.Mean}},
		{in: "score=numeric_constant:-1", column: "score", spec: model.StrategySpec{Kind: model.NumericConstant, Param: "-1"}},
		{in: "city=cat_constant:a:b", column: "city", spec: model.StrategySpec{Kind: model.CatConstant, Param: "a:b"}},
		{in: "age", err: true},
		{in: "=mean", err: true},
		{in: "age=average", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			column, spec, err := ParseStrategyFlag(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.spec, spec)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger("loud", "json")
	assert.Error(t, err)

	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}
