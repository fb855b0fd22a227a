package domain

import "strings"

// Slugify lowercases title, collapses every run of characters outside
// [a-z0-9] into a single '-' and trims leading and trailing separators.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingSep := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// NormalizeTags trims each tag and drops empty ones, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags parses the editor's comma separated tag field.
func SplitTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}
