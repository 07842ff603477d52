package stackwatch

import "strings"

// tagSeparator splits user-entered tag lists, mirroring the
// comma-separated text field most settings surfaces expose.
const tagSeparator = ","

// NormalizeTags trims each tag, drops empties, and removes duplicates
// (case-sensitive), preserving first-occurrence order.
//
// The result is the canonical tag set used for querying. Normalization
// does not cap the list; tags beyond the API's per-cycle limit are kept in
// configuration and simply never queried.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}

// ParseTagList splits a comma-separated tag list and normalizes it with
// [NormalizeTags].
//
// Example:
//
//	stackwatch.ParseTagList("go, rust,,go") // [go rust]
func ParseTagList(s string) []string {
	return NormalizeTags(strings.Split(s, tagSeparator))
}
