package util

import "unicode/utf8"

// Truncate cuts s to max runes, appending an ellipsis when anything was cut.
// Used for logging previews of model output; never for user-visible text.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
