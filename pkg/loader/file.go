// pkg/loader/file.go
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/converter"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
	// ErrNoColumns is returned when a file has no header row
	ErrNoColumns = errors.New("no columns to parse from file")
)

// FileLoader reads uploaded CSV and XLSX files into tables
type FileLoader struct {
	logger    *zap.Logger
	converter *converter.CellConverter
}

// NewFileLoader creates a loader using the default cell converter
func NewFileLoader(logger *zap.Logger) (*FileLoader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return NewFileLoaderWithConverter(logger, converter.NewCellConverter(logger))
}

// NewFileLoaderWithConverter creates a loader with a custom converter
func NewFileLoaderWithConverter(logger *zap.Logger, conv *converter.CellConverter) (*FileLoader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if conv == nil {
		return nil, errors.New("converter cannot be nil")
	}
	return &FileLoader{
		logger:    logger.Named("file-loader"),
		converter: conv,
	}, nil
}

// LoadFile reads the file at path. The source identifier is the base name.
func (l *FileLoader) LoadFile(path string) (*model.Table, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewLoadError(name, err)
	}
	defer f.Close()

	return l.LoadReader(name, f)
}

// LoadReader reads a file's content from r, choosing the format from the
// extension of name
func (l *FileLoader) LoadReader(name string, r io.Reader) (*model.Table, error) {
	var (
		t   *model.Table
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		t, err = l.readCSV(r)
	case ".xlsx":
		t, err = l.readXLSX(r)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		l.logger.Warn("Failed to load file", zap.String("source", name), zap.Error(err))
		return nil, model.NewLoadError(name, err)
	}

	l.logger.Info("Loaded file",
		zap.String("source", name),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()))
	return t, nil
}

func (l *FileLoader) readCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoColumns
	}
	rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")

	return l.build(rows)
}

func (l *FileLoader) readXLSX(r io.Reader) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoColumns
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoColumns
	}

	return l.build(rows)
}

// build turns the first row into column names and the rest into records
func (l *FileLoader) build(rows [][]string) (*model.Table, error) {
	header := HeaderNames(rows[0])
	if len(header) == 0 {
		return nil, ErrNoColumns
	}
	return l.converter.Table(header, rows[1:])
}

// HeaderNames cleans raw header cells into unique, non-empty column names.
// Blank headers become "Unnamed: <index>" and repeats get a ".<n>" suffix.
func HeaderNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// IsSupported reports whether name has a loadable extension
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
