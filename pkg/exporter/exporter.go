// pkg/exporter/exporter.go
package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/David-Botos/data-cleaning/pkg/converter"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

const (
	// DefaultCSVName is the download name of a CSV export
	DefaultCSVName = "cleaned_data.csv"
	// DefaultXLSXName is the download name of an XLSX export
	DefaultXLSXName = "cleaned_data.xlsx"
	// SheetName is the worksheet written by WriteXLSX
	SheetName = "cleaned"

	// ContentTypeCSV is the media type of CSV exports
	ContentTypeCSV = "text/csv; charset=utf-8"
	// ContentTypeXLSX is the media type of XLSX exports
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoTable is returned when asked to export a nil table
var ErrNoTable = errors.New("no table to export")

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the header and every row of t. Missing cells are empty
// and numbers use their shortest decimal form.
func WriteCSV(w io.Writer, t *model.Table, opts WriteOptions) error {
	if t == nil {
		return ErrNoTable
	}

	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, cell := range t.Row(i) {
			record[j] = cell.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes t as a single-sheet workbook. Numbers are stored as
// numeric cells and missing cells are left blank.
func WriteXLSX(w io.Writer, t *model.Table) error {
	if t == nil {
		return ErrNoTable
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Header row
	for j, name := range t.Names() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %q: %w", name, err)
		}
	}

	// Data rows
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.Row(i) {
			v := converter.ExportValue(c)
			if v == nil {
				continue
			}
			// Non-finite numbers have no numeric cell form
			if f, ok := v.(float64); ok && math.IsInf(f, 0) {
				v = infText(f)
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func infText(f float64) string {
	if f > 0 {
		return "inf"
	}
	return "-inf"
}

// CSVBytes renders t as CSV
func CSVBytes(t *model.Table, opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSXBytes renders t as an XLSX workbook
func XLSXBytes(t *model.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes t to path in the format given by its extension
func WriteFile(path string, t *model.Table, opts WriteOptions) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = CSVBytes(t, opts)
	case ".xlsx":
		data, err = XLSXBytes(t)
	default:
		return fmt.Errorf("unsupported export format for %s, expected .csv or .xlsx", path)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
