package mapping

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	slugDisallowed  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace  = regexp.MustCompile(`\s+`)
	slugHyphens     = regexp.MustCompile(`-+`)
	slugLeadingJunk = regexp.MustCompile(`^[^a-z0-9]+`)
)

// FallbackSlug replaces titles that reduce to nothing.
const FallbackSlug = "story"

// Slug derives the CMS slug for a story. The record id suffix keeps slugs
// unique across stories sharing a title.
func Slug(title string, id int64) string {
	s := strings.Map(normalizeSpace, strings.ToLower(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = slugLeadingJunk.ReplaceAllString(s, "")
	s = strings.TrimRight(s, "-")
	if s == "" {
		s = FallbackSlug
	}
	return s + "-" + strconv.FormatInt(id, 10)
}

// normalizeSpace folds every Unicode space, including no-break and em
// spaces, vertical tabs and the ASCII separators 0x1c-0x1f, to a plain space.
func normalizeSpace(r rune) rune {
	if unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || (r >= 0x1c && r <= 0x1f) {
		return ' '
	}
	return r
}
