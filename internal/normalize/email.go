package normalize

import (
	"sort"
	"strings"
)

// FilterEmailsByDomain keeps emails belonging to the official site's domain.
// Strict registrable-domain matches win; if none match, any email whose
// domain contains the brand token is kept; if that tier is also empty the
// full set survives. Output is deduplicated and sorted. Without an official
// URL every email survives.
func FilterEmailsByDomain(emails []string, officialURL string) []string {
	if len(emails) == 0 {
		return nil
	}
	if officialURL == "" {
		return sortedUnique(emails)
	}

	host := Host(officialURL)
	if host == "" {
		return sortedUnique(emails)
	}
	registrable := RegistrableDomain(host)

	var strict []string
	for _, e := range emails {
		if strings.HasSuffix(strings.ToLower(e), "@"+registrable) {
			strict = append(strict, e)
		}
	}
	if len(strict) > 0 {
		return sortedUnique(strict)
	}

	token := BrandToken(host)
	if token == "" {
		return sortedUnique(emails)
	}
	var loose []string
	for _, e := range emails {
		at := strings.IndexByte(e, '@')
		if at < 0 {
			continue
		}
		if strings.Contains(strings.ToLower(e[at+1:]), token) {
			loose = append(loose, e)
		}
	}
	if len(loose) > 0 {
		return sortedUnique(loose)
	}
	return sortedUnique(emails)
}

func sortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
