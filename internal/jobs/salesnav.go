package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
)

// Filters is a firmographic filter search request.
type Filters struct {
	IndustryFocus string
	SizeMin       int
	SizeMax       int
	Countries     []string
	Roles         []string
}

// FilterLead is one raw company row from the filter-search actor.
type FilterLead struct {
	CompanyName        string           `json:"companyName"`
	CompanySize        model.FlexString `json:"companySize"`
	Country            string           `json:"country"`
	City               string           `json:"city"`
	Website            string           `json:"website"`
	CompanyLinkedinURL string           `json:"companyLinkedinUrl"`
	Role               string           `json:"role"`
}

// Size returns the parsed company size, or 0.
func (l FilterLead) Size() int {
	v, ok := l.CompanySize.Float()
	if !ok {
		return 0
	}
	return int(v)
}

const salesNavSearchBase = "https://www.linkedin.com/sales/search/"

// BuildSalesNavURL composes a Sales Navigator company search URL from an
// industry keyword expression, a headcount range, and geography URNs.
func BuildSalesNavURL(industry string, sizeMin, sizeMax int, geoIDs []string) string {
	keywords := `"hotel" OR "resort" OR "serviced apartment" OR "hospitality"`
	if industry != "" && !strings.Contains(strings.ToLower(keywords), strings.ToLower(industry)) {
		keywords += ` OR "` + industry + `"`
	}

	kw := percentEncode(keywords, "")
	headcount := fmt.Sprintf("List((start:%d,end:%d))", sizeMin, sizeMax)
	geos := "List(" + strings.Join(geoIDs, ",") + ")"

	q := fmt.Sprintf("(keywords:%s,companyHeadcountRanges:%s,geoIncluded:%s)", kw, headcount, geos)
	return salesNavSearchBase + "company?query=" + percentEncode(q, "(),:")
}

// percentEncode encodes everything except unreserved characters and the
// bytes listed in safe.
func percentEncode(s, safe string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		case strings.IndexByte(safe, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// payloadVariants builds the input schemas the filter-search actor family
// accepts, in preference order: body-wrapped filters, body-wrapped flat,
// body-wrapped synonyms, body-wrapped URL mode, then the same four without
// the body wrapper. URL-mode variants only appear for "-via-url" modes with
// a search URL in hand.
func payloadVariants(f Filters, mode string, cookies any, searchURL string, page int) []map[string]any {
	industries := []string{}
	if f.IndustryFocus != "" {
		industries = []string{f.IndustryFocus}
	}

	filtersShape := map[string]any{
		"mode": mode,
		"filters": map[string]any{
			"industry":    f.IndustryFocus,
			"companySize": map[string]any{"min": f.SizeMin, "max": f.SizeMax},
			"countries":   f.Countries,
			"roles":       f.Roles,
		},
		"includeContacts": true,
		"deduplicate":     true,
		"cookies":         cookies,
	}
	flatShape := map[string]any{
		"mode":            mode,
		"industry":        f.IndustryFocus,
		"companySize":     map[string]any{"min": f.SizeMin, "max": f.SizeMax},
		"countries":       f.Countries,
		"roles":           f.Roles,
		"includeContacts": true,
		"deduplicate":     true,
		"cookies":         cookies,
	}
	synonymShape := map[string]any{
		"mode":             mode,
		"industries":       industries,
		"companySizeRange": map[string]any{"minEmployees": f.SizeMin, "maxEmployees": f.SizeMax},
		"geos":             f.Countries,
		"titles":           f.Roles,
		"includeContacts":  true,
		"deduplicate":      true,
		"cookies":          cookies,
	}

	shapes := []map[string]any{filtersShape, flatShape, synonymShape}
	if strings.Contains(strings.ToLower(mode), "-via-url") && searchURL != "" {
		shapes = append(shapes, map[string]any{
			"mode":       mode,
			"search_url": searchURL,
			"page":       page,
			"cookies":    cookies,
		})
	}

	variants := make([]map[string]any, 0, 2*len(shapes))
	for _, shape := range shapes {
		variants = append(variants, map[string]any{"body": shape})
	}
	variants = append(variants, shapes...)
	return variants
}

// cookiesPayload loads the Sales Navigator session cookies from config,
// preferring the JSON cookie array over the raw header string.
func (s *Service) cookiesPayload() (any, error) {
	if s.cfg.SalesNavCookiesJSON != "" {
		var parsed any
		if err := json.Unmarshal([]byte(s.cfg.SalesNavCookiesJSON), &parsed); err != nil {
			return nil, eris.Wrap(err, "jobs: sales nav cookies json")
		}
		return parsed, nil
	}
	if s.cfg.SalesNavCookieString != "" {
		return strings.TrimSpace(s.cfg.SalesNavCookieString), nil
	}
	return nil, eris.New("jobs: sales nav cookies missing")
}

func validSalesNavURL(u string) bool {
	return strings.HasPrefix(u, salesNavSearchBase) && strings.Contains(u, "query=")
}

// FilterSearch runs a firmographic company search through the sales-nav
// actor family. A configured search URL is used as-is in lead mode;
// otherwise a company search URL is built from the filters and the geo URN
// map. Rows outside the requested size range or country set are dropped.
func (s *Service) FilterSearch(ctx context.Context, f Filters) ([]FilterLead, error) {
	cookies, err := s.cookiesPayload()
	if err != nil {
		return nil, err
	}

	mode := "search-leads-via-url"
	searchURL := strings.TrimSpace(s.cfg.SalesNavSearchURL)
	if !validSalesNavURL(searchURL) {
		sizeMin := f.SizeMin
		if sizeMin <= 0 {
			sizeMin = 50
		}
		sizeMax := f.SizeMax
		if sizeMax <= 0 {
			sizeMax = 5000
		}
		industry := f.IndustryFocus
		if industry == "" {
			industry = "Hospitality"
		}

		var geoIDs []string
		for _, c := range f.Countries {
			if id, ok := s.reg.SalesNavGeos[c]; ok {
				geoIDs = append(geoIDs, id)
			}
		}
		if len(geoIDs) == 0 {
			return nil, eris.New("jobs: no geo ids for the selected countries")
		}
		searchURL = BuildSalesNavURL(industry, sizeMin, sizeMax, geoIDs)
		mode = "search-companies-via-url"
	}

	// The current actor build wants top-level url/page; older builds want
	// the filter shapes. Offer the url payloads first, then the table.
	urlPayload := map[string]any{
		"mode":            mode,
		"url":             searchURL,
		"page":            s.cfg.SalesNavPage,
		"cookies":         cookies,
		"includeContacts": true,
		"deduplicate":     true,
	}
	variants := []map[string]any{urlPayload, {"body": urlPayload}}
	variants = append(variants, payloadVariants(f, mode, cookies, searchURL, s.cfg.SalesNavPage)...)

	items, err := s.orch.Execute(ctx, orchestrator.JobRequest{
		Name:             "salesnav",
		ActorID:          s.cfg.SalesNavActor,
		FallbackActorIDs: []string{s.cfg.SalesNavFallbackActor},
		PayloadVariants:  variants,
		Timeout:          s.cfg.SalesNavTimeout,
		PollInterval:     s.cfg.PollInterval,
	}, true, 0)
	if err != nil {
		return nil, eris.Wrap(err, "jobs: filter search")
	}

	countries := make(map[string]struct{}, len(f.Countries))
	for _, c := range f.Countries {
		countries[c] = struct{}{}
	}

	var leads []FilterLead
	for _, raw := range items {
		var lead FilterLead
		if err := json.Unmarshal(raw, &lead); err != nil {
			zap.L().Debug("jobs: skip undecodable lead row", zap.Error(err))
			continue
		}
		if len(countries) > 0 && lead.Country != "" {
			if _, ok := countries[lead.Country]; !ok {
				continue
			}
		}
		if size := lead.Size(); size > 0 && f.SizeMin > 0 && f.SizeMax > 0 {
			if size < f.SizeMin || size > f.SizeMax {
				continue
			}
		}
		leads = append(leads, lead)
	}
	return leads, nil
}
