package entity

import (
	"fmt"
	"strings"
)

// Godown identifies one of the two physical warehouses stock is tracked in.
type Godown string

const (
	GodownDelhi Godown = "DELHI"
	GodownSouth Godown = "SOUTH"
)

// godownAliases maps normalized fragments of operator-entered warehouse names
// to a Godown. Display names arrive as free text ("Delhi - Mundka", "south godown").
var godownAliases = []struct {
	fragment string
	godown   Godown
}{
	{"delhi", GodownDelhi},
	{"mundka", GodownDelhi},
	{"south", GodownSouth},
}

// ParseGodown resolves a free-text warehouse name to a Godown. Unrecognized
// names are rejected rather than defaulted so stock is never filed into the
// wrong balance column.
func ParseGodown(name string) (Godown, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", fmt.Errorf("warehouse name is required")
	}
	for _, a := range godownAliases {
		if strings.Contains(n, a.fragment) {
			return a.godown, nil
		}
	}
	return "", fmt.Errorf("unknown warehouse %q", name)
}
