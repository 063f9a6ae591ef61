// pkg/model/cleaning.go
package model

import (
	"time"
)

// Operation names recorded in the cleaning history
const (
	OpLoad           = "load"
	OpImpute         = "impute"
	OpDropMissing    = "drop_missing"
	OpDropDuplicates = "drop_duplicates"
	OpReset          = "reset"
)

// CleaningOperation represents a single mutation of a session's working table
type CleaningOperation struct {
	ID           string    // Unique operation ID
	Operation    string    // Type of cleaning performed (e.g., "impute")
	Column       string    // Column that was cleaned, empty for row-level operations
	Strategy     string    // Strategy spec applied, for imputations
	FillValue    string    // Value used to fill missing cells, when there is a single one
	RowsAffected int       // Rows removed by row-level operations
	CellsFilled  int       // Missing cells replaced by imputations
	At           time.Time // When the operation ran
}

// LoadOptions are the defaults a caller may request at load time. They are
// applied once, duplicates first, then rows with missing values.
type LoadOptions struct {
	RemoveDuplicates bool
	DropMissing      bool
}
