package normalize

import (
	"regexp"
	"strings"
)

var (
	pipeTail = regexp.MustCompile(`\s*\|\s*.*$`)
	homeTail = regexp.MustCompile(`(?i)\s*-\s*Home\s*$`)
)

// GuessCompanyName derives a brand name from a page's site name or title,
// stripping "| ..." sections and "- Home" boilerplate. The first candidate
// that survives cleanup wins; otherwise the raw site name or title.
func GuessCompanyName(siteName, title string) string {
	for _, cand := range []string{siteName, title} {
		if cand == "" {
			continue
		}
		c := pipeTail.ReplaceAllString(cand, "")
		c = homeTail.ReplaceAllString(c, "")
		c = strings.TrimSpace(c)
		if c != "" {
			return c
		}
	}
	if siteName != "" {
		return siteName
	}
	return title
}
