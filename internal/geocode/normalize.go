package geocode

import "strings"

// barangayPrefixes are common spellings of the "barangay" administrative
// prefix, all canonicalized to "brgy " so cache keys stay stable across
// input variants.
var barangayPrefixes = []string{"barangay ", "bgy ", "bgy. "}

// NormalizeKey cleans a raw location string for caching and geocoding:
// lower-case, trimmed, internal whitespace collapsed, barangay prefix
// variants mapped to one spelling. Every cache read and write goes through
// this so hits are consistent across call sites.
func NormalizeKey(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))

	for _, prefix := range barangayPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = "brgy " + text[len(prefix):]
			break
		}
	}

	return strings.Join(strings.Fields(text), " ")
}
