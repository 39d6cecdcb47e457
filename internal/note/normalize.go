// Package note holds the pure text helpers for ingredient notes:
// quantity-prefix normalization used as the deduplication key, and
// quantity scaling for recipe ingredient batches.
package note

import (
	"regexp"
	"strings"
)

// quantityPrefix matches a leading amount (integer or single decimal,
// comma or point) followed by an optional recognized unit token and at
// least one space. The unit set mirrors what Mealie ingredient notes
// carry in practice.
var quantityPrefix = regexp.MustCompile(
	`(?i)^\d+([.,]\d+)?\s*(g|ml|tl|el|stk|pck\.?|msp\.?|tasse|tassen|prise|scheiben?|stück|dose|dosen)?\s+`,
)

// Normalize strips one leading quantity+unit prefix from a raw
// ingredient note and trims surrounding whitespace. Text that does not
// start with a numeric token is only trimmed. Normalize is idempotent
// as long as the remainder does not itself start with a number, which
// holds for the dedup keys it produces in practice.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	cleaned := quantityPrefix.ReplaceAllString(trimmed, "")
	return strings.TrimSpace(cleaned)
}

// EqualFold reports whether two notes normalize to the same
// case-insensitive dedup key.
func EqualFold(a, b string) bool {
	return strings.EqualFold(Normalize(a), Normalize(b))
}
