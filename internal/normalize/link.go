package normalize

import "strings"

// CleanLinkedIn canonicalizes a LinkedIn URL: drop the query string and
// trailing slash, strip a "/posts" suffix, and remove a trailing hyphen.
func CleanLinkedIn(raw string) string {
	if raw == "" {
		return ""
	}
	u := raw
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if strings.HasSuffix(u, "/posts") {
		u = strings.TrimRight(strings.TrimSuffix(u, "/posts"), "/")
	}
	u = strings.TrimSuffix(u, "-")
	return u
}

// PickLinkedIn chooses the best LinkedIn URL from cleaned candidates:
// company pages not pointing at posts win, otherwise the first candidate.
func PickLinkedIn(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	for _, u := range urls {
		if strings.Contains(u, "/company/") && !strings.Contains(u, "/posts") {
			return u
		}
	}
	return urls[0]
}
