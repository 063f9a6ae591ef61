// pkg/converter/converter.go
package converter

import (
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

// CellConverter turns raw loader values into typed cells and typed cells
// back into values for exporters
type CellConverter struct {
	logger *zap.Logger
	// Configuration options
	config CellConverterConfig
	nulls  map[string]struct{}
}

// CellConverterConfig provides configuration options for cell conversion
type CellConverterConfig struct {
	// Tokens read as missing values, matched after trimming whitespace
	NullTokens []string
	// Whether to trim surrounding whitespace from text cells
	TrimSpace bool
	// Whether text that parses as a number becomes a numeric cell
	ParseNumbers bool
}

// DefaultNullTokens mirrors the markers spreadsheet and dataframe tools
// commonly read as missing
var DefaultNullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// DefaultConfig returns the default configuration
func DefaultConfig() CellConverterConfig {
	return CellConverterConfig{
		NullTokens:   DefaultNullTokens,
		TrimSpace:    true,
		ParseNumbers: true,
	}
}

// ConfigWithNullTokens returns the default configuration with extra null
// tokens added to the built-in set
func ConfigWithNullTokens(extra ...string) CellConverterConfig {
	cfg := DefaultConfig()
	cfg.NullTokens = append(append([]string{}, DefaultNullTokens...), extra...)
	return cfg
}

// NewCellConverter creates a new CellConverter with default configuration
func NewCellConverter(logger *zap.Logger) *CellConverter {
	return NewCellConverterWithConfig(logger, DefaultConfig())
}

// NewCellConverterWithConfig creates a CellConverter with custom configuration
func NewCellConverterWithConfig(logger *zap.Logger, config CellConverterConfig) *CellConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	nulls := make(map[string]struct{}, len(config.NullTokens))
	for _, tok := range config.NullTokens {
		nulls[tok] = struct{}{}
	}
	return &CellConverter{
		logger: logger,
		config: config,
		nulls:  nulls,
	}
}

// Column builds a column from raw strings
func (c *CellConverter) Column(name string, raw []string) model.Column {
	cells := make([]model.Cell, len(raw))
	for i, v := range raw {
		cells[i] = c.ParseCell(v)
	}
	return model.Column{Name: name, Cells: cells}
}

// Table builds a table from a header and string records. Records shorter
// than the header are padded with missing cells; extra fields are dropped.
func (c *CellConverter) Table(header []string, records [][]string) (*model.Table, error) {
	cols := make([]model.Column, len(header))
	for j, name := range header {
		cells := make([]model.Cell, len(records))
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = c.ParseCell(rec[j])
			} else {
				cells[i] = model.Missing()
			}
		}
		cols[j] = model.Column{Name: name, Cells: cells}
	}

	numeric := 0
	for _, col := range cols {
		if col.Type() == model.Numeric {
			numeric++
		}
	}
	c.logger.Debug("Converted records to table",
		zap.Int("columns", len(cols)),
		zap.Int("numericColumns", numeric),
		zap.Int("rows", len(records)))

	return model.NewTable(cols...)
}
