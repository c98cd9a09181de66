package prospect

import (
	"regexp"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

const unknown = "Unknown"

var (
	blockSplit = regexp.MustCompile(`####\s*\d+\.\s*\*\*`)
	namePat    = regexp.MustCompile(`^([^*\n]+)\*\*`)
	websitePat = regexp.MustCompile(`Website(?: URL)?:\s*(https?://[^\s\n]+)`)
	revenuePat = regexp.MustCompile(`Revenue:\s*\$?([^\n]+)`)
	hqPat      = regexp.MustCompile(`Headquarters:\s*([^\n]+)`)
	empPat     = regexp.MustCompile(`Employee(?: Count)?:\s*([^\n]+)`)
	sourcePat  = regexp.MustCompile(`Verified Source:\s*([^\n]+)`)
)

// ParseCandidates extracts company candidates from the completion model's
// markdown output. Each candidate starts with a "#### N. **Name**" heading;
// labeled fields inside the block are optional and default to Unknown.
// Duplicate names keep the first occurrence.
func ParseCandidates(text string) []model.CompanyCandidate {
	blocks := blockSplit.Split(text, -1)
	if len(blocks) < 2 {
		return nil
	}

	var out []model.CompanyCandidate
	seen := make(map[string]struct{})
	for _, block := range blocks[1:] {
		m := namePat.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		out = append(out, model.CompanyCandidate{
			Name:           name,
			Website:        fieldOrUnknown(websitePat, block),
			Revenue:        fieldOrUnknown(revenuePat, block),
			Headquarters:   fieldOrUnknown(hqPat, block),
			EmployeeCount:  fieldOrUnknown(empPat, block),
			VerifiedSource: fieldOrUnknown(sourcePat, block),
		})
	}
	return out
}

func fieldOrUnknown(pat *regexp.Regexp, block string) string {
	if m := pat.FindStringSubmatch(block); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return unknown
}
