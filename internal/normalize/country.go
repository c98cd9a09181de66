package normalize

import "strings"

// ExpandCountry turns an ISO alpha-2 code into a display name using the
// given table. Values not in the table pass through unchanged.
func ExpandCountry(val string, names map[string]string) string {
	v := strings.TrimSpace(val)
	if v == "" {
		return ""
	}
	if name, ok := names[strings.ToUpper(v)]; ok {
		return name
	}
	return v
}
