package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/inkandthread/printshop-backend/pkg/enums"
)

const (
	// MinInkColors and MaxInkColors bound the ink colors per print location.
	MinInkColors = 1
	MaxInkColors = 4
)

// PrintLocationSpec configures one print placement on a garment.
type PrintLocationSpec struct {
	Enabled   bool `json:"enabled"`
	NumColors int  `json:"num_colors"`
}

// PrintConfig maps each print location to its spec. Locations absent from the
// map are treated as disabled.
type PrintConfig map[enums.PrintLocation]PrintLocationSpec

// EnabledLocations returns the enabled placements in the fixed catalog order.
func (c PrintConfig) EnabledLocations() []enums.PrintLocation {
	var out []enums.PrintLocation
	for _, loc := range enums.AllPrintLocations() {
		if spec, ok := c[loc]; ok && spec.Enabled {
			out = append(out, loc)
		}
	}
	return out
}

// TotalScreens sums ink colors across enabled locations, one screen per ink
// color per location.
func (c PrintConfig) TotalScreens() int {
	total := 0
	for _, loc := range c.EnabledLocations() {
		total += c[loc].NumColors
	}
	return total
}

// Validate checks that the config names only known locations, enables at
// least one of them, and keeps ink colors within the press limits.
func (c PrintConfig) Validate() error {
	for loc, spec := range c {
		if !loc.IsValid() {
			return fmt.Errorf("unknown print location %q", loc)
		}
		if !spec.Enabled {
			continue
		}
		if spec.NumColors < MinInkColors || spec.NumColors > MaxInkColors {
			return fmt.Errorf("location %q: num_colors must be between %d and %d", loc, MinInkColors, MaxInkColors)
		}
	}
	if len(c.EnabledLocations()) == 0 {
		return fmt.Errorf("at least one print location must be enabled")
	}
	return nil
}

// Value implements driver.Valuer so the config persists as jsonb.
func (c PrintConfig) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the jsonb column.
func (c *PrintConfig) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("print config: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, c)
}
