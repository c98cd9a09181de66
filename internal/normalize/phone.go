package normalize

// CleanPhone strips everything except digits and '+' and rejects strings
// whose digit count falls outside the typical E.164 range of 8 to 15.
// Employee ranges like "201-1000" fail the length check and drop out.
func CleanPhone(raw string) (string, bool) {
	var b []byte
	digits := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= '0' && c <= '9' {
			digits++
			b = append(b, c)
		} else if c == '+' {
			b = append(b, c)
		}
	}
	if digits < 8 || digits > 15 {
		return "", false
	}
	return string(b), true
}

// CleanPhones cleans every raw phone, dropping rejects, deduplicating and
// sorting the survivors.
func CleanPhones(raws []string) []string {
	var cleaned []string
	for _, p := range raws {
		if cp, ok := CleanPhone(p); ok {
			cleaned = append(cleaned, cp)
		}
	}
	return sortedUnique(cleaned)
}
