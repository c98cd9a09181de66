package normalize

import (
	"strconv"
	"strings"
)

// ParseEmployeeCount parses a free-text employee figure. Ranges like
// "200-500" resolve to their lower bound; separators and suffixes are
// ignored ("1,200+" parses as 1200). Returns ok=false when no digits remain.
func ParseEmployeeCount(raw string) (int, bool) {
	lower := strings.SplitN(raw, "-", 2)[0]
	var b []byte
	for i := 0; i < len(lower); i++ {
		if c := lower[i]; c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	if len(b) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseRevenueMillions parses a free-text revenue figure into millions of
// dollars, scaling K and B suffixes ("$500K" parses as 0.5, "$2B" as 2000,
// "$12.5M" as 12.5; a bare number is taken as millions). Returns ok=false
// when nothing numeric remains.
func ParseRevenueMillions(raw string) (float64, bool) {
	s := strings.ToLower(raw)

	start := -1
	end := len(s)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || (start >= 0 && c == ',') {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s[start:end], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	switch suffix := strings.TrimLeft(s[end:], " \t"); {
	case strings.HasPrefix(suffix, "k") || strings.HasPrefix(suffix, "thousand"):
		v /= 1000
	case strings.HasPrefix(suffix, "b") || strings.HasPrefix(suffix, "billion"):
		v *= 1000
	}
	return v, true
}
