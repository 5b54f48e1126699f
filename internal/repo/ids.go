package repo

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeID trims and upper-cases an identifier for storage and lookup.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidID reports whether id is prefix followed by exactly width digits,
// case-insensitive.
func ValidID(id, prefix string, width int) bool {
	id = NormalizeID(id)
	if len(id) != len(prefix)+width || !strings.HasPrefix(id, strings.ToUpper(prefix)) {
		return false
	}
	for _, c := range id[len(prefix):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// NextID scans existing identifiers for prefix+digits entries, takes the
// highest numeric suffix and returns prefix plus the zero-padded successor.
// Suffixes that fail to parse are ignored, so the result is max-based, not
// count-based.
func NextID(existing []string, prefix string, width int) string {
	prefix = strings.ToUpper(prefix)
	max := 0
	for _, raw := range existing {
		id := NormalizeID(raw)
		if !strings.HasPrefix(id, prefix) || len(id) <= len(prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, max+1)
}
