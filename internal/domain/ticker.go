package domain

import "strings"

// CanonicalTicker returns the canonical form of a stock symbol: trimmed and
// uppercased. Symbols have no identity beyond their string value.
func CanonicalTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeClassShares converts the dot class-share separator used by the
// constituent source to the dash form the transaction source expects
// (e.g. "BRK.B" -> "BRK-B").
func NormalizeClassShares(s string) string {
	return strings.ReplaceAll(s, ".", "-")
}
