// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// ItemID validates a remote item id: non-empty and free of whitespace and
// path separators, since ids are interpolated into request paths.
func ItemID(id string) error {
	if id == "" {
		return fmt.Errorf("is required")
	}
	if strings.ContainsAny(id, " \t\n/?#") {
		return fmt.Errorf("invalid item id %q", id)
	}
	return nil
}

// PriorityLevel validates a user-facing priority level, 1 (lowest) to 3
// (highest).
func PriorityLevel(level int) error {
	if level < 1 || level > 3 {
		return fmt.Errorf("must be between 1 and 3, got %d", level)
	}
	return nil
}
