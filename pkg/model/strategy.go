// pkg/model/strategy.go
package model

import "fmt"

// ColumnType classifies a column as numeric or categorical
type ColumnType int

const (
	// Numeric columns hold only numbers (or missing values)
	Numeric ColumnType = iota
	// Categorical columns hold text or mixed values
	Categorical
)

// String returns the dtype label used in summaries
func (ct ColumnType) String() string {
	switch ct {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Unknown(%d)", int(ct))
	}
}

// StrategyKind names a missing-value repair rule
type StrategyKind int

const (
	Mean StrategyKind = iota
	Median
	NumericConstant
	Mode
	FFill
	BFill
	CatConstant
)

var strategyNames = map[StrategyKind]string{
	Mean:            "mean",
	Median:          "median",
	NumericConstant: "numeric_constant",
	Mode:            "mode",
	FFill:           "ffill",
	BFill:           "bfill",
	CatConstant:     "cat_constant",
}

// StrategyKinds lists every kind in declaration order
var StrategyKinds = []StrategyKind{Mean, Median, NumericConstant, Mode, FFill, BFill, CatConstant}

// String returns the wire name of the kind
func (k StrategyKind) String() string {
	if name, ok := strategyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// ParseStrategyKind resolves a wire name into a StrategyKind
func ParseStrategyKind(s string) (StrategyKind, error) {
	for _, k := range StrategyKinds {
		if strategyNames[k] == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// NumericOnly reports whether the kind applies only to numeric columns
func (k StrategyKind) NumericOnly() bool {
	return k == Mean || k == Median || k == NumericConstant
}

// Accepts reports whether the kind can be applied to a column of type ct
func (k StrategyKind) Accepts(ct ColumnType) bool {
	if k.NumericOnly() {
		return ct == Numeric
	}
	return ct == Categorical
}

// StrategySpec is a strategy kind plus its optional literal parameter
type StrategySpec struct {
	Kind  StrategyKind
	Param string
}

// String renders the spec as kind or kind:param
func (s StrategySpec) String() string {
	if s.Param == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ":" + s.Param
}

// Strategies maps column names to the strategy chosen for them
type Strategies map[string]StrategySpec

// SkipNotice reports a strategy that could not be applied to a column
type SkipNotice struct {
	Column string
	Kind   StrategyKind
	Reason string
}

const (
	// ReasonIncompatible is used when the strategy does not fit the column dtype
	ReasonIncompatible = "incompatible strategy or dtype"
	// ReasonColumnNotFound is used when the column does not exist
	ReasonColumnNotFound = "column not found"
)

// String renders the notice as shown to users
func (n SkipNotice) String() string {
	return fmt.Sprintf("Skipped %s: %s.", n.Column, n.Reason)
}
