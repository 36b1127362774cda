package batch

import "strings"

// Fetchable reports whether a raw cell value can be handed to the fetcher.
// Only the prefix is checked, case-sensitively and without trimming; anything
// else (empty, wrong scheme, leading spaces) is rejected.
func Fetchable(raw string) bool {
	return strings.HasPrefix(raw, "http:") || strings.HasPrefix(raw, "https:")
}
