// pkg/config/plan.go
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

// ColumnPlan selects the strategy for one column
type ColumnPlan struct {
	Strategy string `toml:"strategy"`
	Value    string `toml:"value"`
}

// Plan is a cleaning plan read from a TOML file
type Plan struct {
	RemoveDuplicates bool                  `toml:"remove_duplicates"`
	DropMissing      bool                  `toml:"drop_missing"`
	Columns          map[string]ColumnPlan `toml:"columns"`
}

// LoadPlan reads and validates a cleaning plan
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file '%s': %w", path, err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a TOML cleaning plan
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := toml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if _, err := plan.Strategies(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// LoadOptions returns the load-time flags of the plan
func (p *Plan) LoadOptions() model.LoadOptions {
	return model.LoadOptions{
		RemoveDuplicates: p.RemoveDuplicates,
		DropMissing:      p.DropMissing,
	}
}

// Strategies converts the column section into strategy specs
func (p *Plan) Strategies() (model.Strategies, error) {
	names := make([]string, 0, len(p.Columns))
	for name := range p.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make(model.Strategies, len(p.Columns))
	for _, name := range names {
		col := p.Columns[name]
		kind, err := model.ParseStrategyKind(col.Strategy)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		specs[name] = model.StrategySpec{Kind: kind, Param: col.Value}
	}
	return specs, nil
}

// ParseStrategyFlag parses a "column=kind[:param]" command-line value
func ParseStrategyFlag(s string) (string, model.StrategySpec, error) {
	column, rest, ok := strings.Cut(s, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return "", model.StrategySpec{}, fmt.Errorf("invalid strategy %q: expected column=kind[:param]", s)
	}

	name, param, _ := strings.Cut(rest, ":")
	kind, err := model.ParseStrategyKind(strings.TrimSpace(name))
	if err != nil {
		return "", model.StrategySpec{}, fmt.Errorf("column %q: %w", column, err)
	}
	return column, model.StrategySpec{Kind: kind, Param: param}, nil
}
