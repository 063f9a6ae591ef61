// pkg/loader/query.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/connector"
	"github.com/David-Botos/data-cleaning/pkg/converter"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// QueryLoader reads database tables and query results into tables
type QueryLoader struct {
	conn      connector.DatabaseConnector
	converter *converter.CellConverter
	logger    *zap.Logger
	timeout   time.Duration
}

// NewQueryLoader creates a loader reading through conn. A non-positive
// timeout defaults to two minutes.
func NewQueryLoader(conn connector.DatabaseConnector, logger *zap.Logger, timeout time.Duration) (*QueryLoader, error) {
	if conn == nil {
		return nil, errors.New("connector cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &QueryLoader{
		conn:      conn,
		converter: converter.NewCellConverter(logger),
		logger:    logger.Named("query-loader"),
		timeout:   timeout,
	}, nil
}

// TableSource returns the source identifier for a database table
func TableSource(dialect connector.Dialect, schema, table string) string {
	if schema == "" {
		return fmt.Sprintf("%s:%s", dialect, table)
	}
	return fmt.Sprintf("%s:%s.%s", dialect, schema, table)
}

// LoadTable reads every row of schema.table. It returns the source
// identifier along with the table.
func (l *QueryLoader) LoadTable(ctx context.Context, schema, table string) (string, *model.Table, error) {
	if table == "" {
		return "", nil, errors.New("table name is required")
	}
	source := TableSource(l.conn.Dialect(), schema, table)
	query := "SELECT * FROM " + l.conn.QuoteTable(schema, table)

	t, err := l.LoadQuery(ctx, source, query)
	if err != nil {
		return "", nil, err
	}
	return source, t, nil
}

// LoadQuery runs query and converts its result set. Failures are reported
// as *model.LoadError for source.
func (l *QueryLoader) LoadQuery(ctx context.Context, source, query string, args ...interface{}) (*model.Table, error) {
	start := time.Now()

	rows, cancel, err := l.conn.QueryWithTimeout(ctx, query, l.timeout, args...)
	if err != nil {
		return nil, model.NewLoadError(source, fmt.Errorf("query failed: %w", err))
	}
	defer cancel()
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, model.NewLoadError(source, fmt.Errorf("failed to read columns: %w", err))
	}
	names := HeaderNames(columns)

	cells := make([][]model.Cell, len(names))
	rowCount := 0
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, model.NewLoadError(source, fmt.Errorf("failed to scan row %d: %w", rowCount, err))
		}
		for i := range names {
			cells[i] = append(cells[i], l.converter.FromValue(values[i]))
		}
		rowCount++
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewLoadError(source, fmt.Errorf("error iterating rows: %w", err))
	}

	cols := make([]model.Column, len(names))
	for i, name := range names {
		if cells[i] == nil {
			cells[i] = []model.Cell{}
		}
		cols[i] = model.Column{Name: name, Cells: cells[i]}
	}
	t, err := model.NewTable(cols...)
	if err != nil {
		return nil, model.NewLoadError(source, err)
	}

	l.logger.Info("Loaded query result",
		zap.String("source", source),
		zap.Int("rows", rowCount),
		zap.Int("columns", len(cols)),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}
