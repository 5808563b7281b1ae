package enums

import "fmt"

// BreakdownKind tags which shape a persisted pricing breakdown snapshot holds.
type BreakdownKind string

const (
	BreakdownKindSingle BreakdownKind = "single_garment"
	BreakdownKindMulti  BreakdownKind = "multi_garment"
)

var validBreakdownKinds = []BreakdownKind{
	BreakdownKindSingle,
	BreakdownKindMulti,
}

// String implements fmt.Stringer.
func (b BreakdownKind) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BreakdownKind.
func (b BreakdownKind) IsValid() bool {
	for _, candidate := range validBreakdownKinds {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBreakdownKind converts raw input into a BreakdownKind.
func ParseBreakdownKind(value string) (BreakdownKind, error) {
	for _, candidate := range validBreakdownKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid breakdown kind %q", value)
}
