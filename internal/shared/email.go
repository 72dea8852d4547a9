package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail returns the case-insensitive key used for email lookups.
// A Caser is not safe for concurrent use, so each call builds its own.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
