package preset

import "strings"

// normalize lowercases input and strips spaces, underscores and hyphens so
// spreadsheet spellings like "Top Fixed" and "top_fixed" compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
