package utils

import (
	"strings"
)

// NormalizeURL produces the dedup/lookup key for a content URL:
// lowercase, protocol stripped, leading "www." stripped, one trailing
// slash stripped. This is a plain string transform, not URL parsing;
// query strings and ports survive verbatim (case-folded). It is
// idempotent.
func NormalizeURL(raw string) string {
	u := strings.ToLower(raw)
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "www.")
	u = strings.TrimSuffix(u, "/")
	return u
}
