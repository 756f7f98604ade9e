// Package secrets classifies configuration keys as sensitive and masks their
// values for display and diagnostics.
package secrets

import "strings"

// Mask replaces every sensitive value on display. It never reflects the
// length of the value it hides.
const Mask = "********"

var markers = []string{"PASSWORD", "SECRET", "KEY", "TOKEN"}

// IsSensitive reports whether the upper-cased key contains one of
// PASSWORD, SECRET, KEY or TOKEN.
func IsSensitive(key string) bool {
	k := strings.ToUpper(key)
	for _, m := range markers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}

// Display returns the value as it should be shown in a default listing.
func Display(key, value string) string {
	if IsSensitive(key) {
		return Mask
	}
	return value
}

// Scrub replaces every occurrence of the given secret values in s with Mask.
// Empty values are ignored.
func Scrub(s string, values ...string) string {
	for _, v := range values {
		if v == "" {
			continue
		}
		s = strings.ReplaceAll(s, v, Mask)
	}
	return s
}
