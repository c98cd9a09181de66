// Package normalize contains the pure cleanup and classification helpers
// used when fusing signals into a lead record. Nothing here touches the
// network or returns errors; bad input yields empty output.
package normalize

import (
	"net/url"
	"strings"
)

// Host extracts the lowercased host from a URL, dropping any port.
func Host(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		// Bare domains like "example.com/contact" parse with an empty host.
		host = strings.SplitN(u.Path, "/", 2)[0]
	}
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

// RegistrableDomain returns the naive eTLD+1, the last two labels of the
// host. "www.zapcom.ai" becomes "zapcom.ai".
func RegistrableDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// BrandToken returns the second-level label of the host, the crude brand
// name. "www.zapcom.ai" becomes "zapcom".
func BrandToken(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}

// IsBadHost reports whether the URL belongs to a host that never counts as
// a company's own website. Entries match by substring so partial patterns
// like "booking." cover country TLD variants.
func IsBadHost(rawURL string, badHosts []string) bool {
	for _, b := range badHosts {
		if b != "" && strings.Contains(rawURL, b) {
			return true
		}
	}
	return false
}
