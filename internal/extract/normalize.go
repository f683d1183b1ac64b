package extract

import "strings"

// Normalize collapses any run of whitespace to a single space and trims the
// result. Empty input yields an empty string.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
