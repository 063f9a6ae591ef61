package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/connector"
	"github.com/David-Botos/data-cleaning/pkg/converter"
	"github.com/David-Botos/data-cleaning/pkg/loader"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

var errNoSource = errors.New("a file argument, --pg-table or --sf-table is required")

// sourceFlags selects a database table instead of a file argument
type sourceFlags struct {
	pgTable string
	sfTable string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.pgTable, "pg-table", "", "load [schema.]table from Postgres")
	cmd.Flags().StringVar(&s.sfTable, "sf-table", "", "load [schema.]table from Snowflake")
	cmd.MarkFlagsMutuallyExclusive("pg-table", "sf-table")
}

// loadSource returns the source identifier and table named by args or flags
func (a *app) loadSource(ctx context.Context, args []string, src sourceFlags) (string, *model.Table, error) {
	fromDB := src.pgTable != "" || src.sfTable != ""
	if fromDB && len(args) > 0 {
		return "", nil, errors.New("a file argument cannot be combined with a table flag")
	}

	switch {
	case src.pgTable != "":
		return a.loadTable(ctx, connector.DialectPostgres, src.pgTable)
	case src.sfTable != "":
		return a.loadTable(ctx, connector.DialectSnowflake, src.sfTable)
	case len(args) == 1:
		fl, err := a.fileLoader()
		if err != nil {
			return "", nil, err
		}
		t, err := fl.LoadFile(args[0])
		if err != nil {
			return "", nil, err
		}
		return filepath.Base(args[0]), t, nil
	default:
		return "", nil, errNoSource
	}
}

// fileLoader builds a loader honouring the configured extra null tokens
func (a *app) fileLoader() (*loader.FileLoader, error) {
	conv := converter.NewCellConverterWithConfig(a.logger, converter.ConfigWithNullTokens(a.cfg.NullTokens...))
	return loader.NewFileLoaderWithConverter(a.logger, conv)
}

func (a *app) loadTable(ctx context.Context, dialect connector.Dialect, ref string) (string, *model.Table, error) {
	schema, table := splitTableRef(ref)

	conn, err := connector.NewConnectorFactory(a.cfg, a.logger).Create(ctx, dialect)
	if err != nil {
		return "", nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			a.logger.Warn("Failed to close connection", zap.String("dialect", string(dialect)), zap.Error(err))
		}
	}()

	ql, err := loader.NewQueryLoader(conn, a.logger, a.cfg.QueryTimeout)
	if err != nil {
		return "", nil, err
	}
	return ql.LoadTable(ctx, schema, table)
}

// splitTableRef splits "schema.table" on its first dot
func splitTableRef(ref string) (schema, table string) {
	if i := strings.Index(ref, "."); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}
