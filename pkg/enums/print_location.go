package enums

import "fmt"

// PrintLocation identifies one of the fixed garment print placements.
type PrintLocation string

const (
	PrintLocationFront      PrintLocation = "front"
	PrintLocationBack       PrintLocation = "back"
	PrintLocationLeftChest  PrintLocation = "left_chest"
	PrintLocationRightChest PrintLocation = "right_chest"
	PrintLocationFullBack   PrintLocation = "full_back"
)

var validPrintLocations = []PrintLocation{
	PrintLocationFront,
	PrintLocationBack,
	PrintLocationLeftChest,
	PrintLocationRightChest,
	PrintLocationFullBack,
}

// AllPrintLocations returns every supported placement in a stable order.
func AllPrintLocations() []PrintLocation {
	out := make([]PrintLocation, len(validPrintLocations))
	copy(out, validPrintLocations)
	return out
}

// String implements fmt.Stringer.
func (p PrintLocation) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrintLocation.
func (p PrintLocation) IsValid() bool {
	for _, candidate := range validPrintLocations {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintLocation converts raw input into a PrintLocation.
func ParsePrintLocation(value string) (PrintLocation, error) {
	for _, candidate := range validPrintLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print location %q", value)
}
