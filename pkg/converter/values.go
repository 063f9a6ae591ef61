// pkg/converter/values.go
package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

// ParseCell classifies a raw text value as missing, numeric or text
func (c *CellConverter) ParseCell(raw string) model.Cell {
	v := raw
	if c.config.TrimSpace {
		v = strings.TrimSpace(v)
	}
	if c.isNull(v) {
		return model.Missing()
	}
	if c.config.ParseNumbers {
		if f, ok := parseNumber(v); ok {
			return model.Number(f)
		}
	}
	return model.Text(v)
}

// FromValue converts a value scanned from a database driver into a cell
func (c *CellConverter) FromValue(value interface{}) model.Cell {
	switch v := value.(type) {
	case nil:
		return model.Missing()
	case int:
		return model.Number(float64(v))
	case int8:
		return model.Number(float64(v))
	case int16:
		return model.Number(float64(v))
	case int32:
		return model.Number(float64(v))
	case int64:
		return model.Number(float64(v))
	case uint:
		return model.Number(float64(v))
	case uint8:
		return model.Number(float64(v))
	case uint16:
		return model.Number(float64(v))
	case uint32:
		return model.Number(float64(v))
	case uint64:
		return model.Number(float64(v))
	case float32:
		return floatCell(float64(v))
	case float64:
		return floatCell(v)
	case bool:
		return model.Text(strconv.FormatBool(v))
	case time.Time:
		return model.Text(v.Format(time.RFC3339))
	case string:
		// Drivers return NUMERIC/DECIMAL as text
		return c.ParseCell(v)
	case []byte:
		return c.ParseCell(string(v))
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return model.Text(fmt.Sprintf("%v", v))
		}
		return model.Text(string(jsonBytes))
	}
}

// ExportValue converts a cell into the value written to spreadsheet cells:
// nil for missing, float64 for numbers and string for text
func ExportValue(cell model.Cell) interface{} {
	switch cell.Kind {
	case model.CellNumber:
		return cell.Num
	case model.CellText:
		return cell.Text
	default:
		return nil
	}
}

// isNull determines if a value should be treated as missing
func (c *CellConverter) isNull(v string) bool {
	_, ok := c.nulls[v]
	return ok
}

// parseNumber parses decimal numbers, rejecting NaN which is a missing marker.
// Go literal forms (hex floats, digit separators) stay text.
func parseNumber(v string) (float64, bool) {
	if v == "" || strings.ContainsAny(v, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func floatCell(f float64) model.Cell {
	if math.IsNaN(f) {
		return model.Missing()
	}
	return model.Number(f)
}
