package normalize

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/registry"
)

// ClassifyIndustry assigns an industry segment and type from free-text
// category and schema hints. Rules are checked in order and keywords match
// by substring; the first segment hit wins and its type rules refine it.
func ClassifyIndustry(category, schema string, rules []registry.IndustryRule) (segment, industryType string) {
	text := strings.ToLower(category) + " " + strings.ToLower(schema)
	for _, rule := range rules {
		if !anyKeyword(text, rule.Keywords) {
			continue
		}
		for _, tr := range rule.Types {
			if anyKeyword(text, tr.Keywords) {
				return rule.Segment, tr.Type
			}
		}
		return rule.Segment, ""
	}
	return "", ""
}

// SchemaIndustryType maps a schema.org type string to an industry type via
// ordered keyword rules.
func SchemaIndustryType(schemaType string, rules []registry.SchemaTypeRule) string {
	s := strings.ToLower(schemaType)
	if s == "" {
		return ""
	}
	for _, r := range rules {
		if strings.Contains(s, r.Keyword) {
			return r.Type
		}
	}
	return ""
}

func anyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}
