// Package numerador provides the declaration numbering contract.
// Implementations live in the infrastructure layer.
package numerador

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the fixed, persisted prefix of every declaration number.
const Prefix = "DESP"

// PadWidth is the zero-padded suffix width (DESP-2025-0007).
const PadWidth = 4

// Allocator proposes the next sequential declaration number for a year.
//
// A proposal is not a reservation: two concurrent callers may receive the
// same number. Uniqueness is enforced by the store's unique index on
// numero_despacho; the despacho service retries allocation on a
// unique-violation error with a bounded attempt budget.
type Allocator interface {
	// Next returns the next number in DESP-<year>-NNNN form, derived
	// from the largest suffix already persisted for that year.
	Next(ctx context.Context, year int) (string, error)
}

// Format builds the canonical number string for a year and suffix.
func Format(year int, suffix int) string {
	return fmt.Sprintf("%s-%d-%0*d", Prefix, year, PadWidth, suffix)
}

// YearPrefix returns the scan prefix for a year ("DESP-2025-").
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", Prefix, year)
}

// ParseSuffix extracts the numeric suffix from a persisted number.
// An unexpected format returns ok=false: the caller treats it as
// "no prior numbers this year" instead of failing the allocation.
func ParseSuffix(numero string) (int, bool) {
	parts := strings.Split(numero, "-")
	if len(parts) != 3 || parts[0] != Prefix {
		return 0, false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
