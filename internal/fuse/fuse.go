// Package fuse merges the signal bundles collected for one query into a
// single lead record. Scraped website signals take precedence, maps
// enrichment fills gaps and overrides the website and rating picks, search
// results supply website candidates, and hints contribute LinkedIn URLs.
// Fusion never fails; missing signals leave fields empty.
package fuse

import (
	"strconv"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/registry"
)

// TimezoneFinder resolves coordinates to an IANA timezone name. Lookups
// are best-effort; implementations return "" for anything unresolvable.
type TimezoneFinder interface {
	TimezoneAt(lat, lng float64) string
}

// Fuser fuses signal bundles into lead records.
type Fuser struct {
	reg *registry.Registry
	tz  TimezoneFinder
}

// New creates a Fuser. tz may be nil, which disables timezone resolution.
func New(reg *registry.Registry, tz TimezoneFinder) *Fuser {
	return &Fuser{reg: reg, tz: tz}
}

// Fuse merges the bundles for one query into a lead record. When several
// bundles share a source the first one wins.
func (f *Fuser) Fuse(query string, signals []*model.SignalBundle) model.LeadRecord {
	bySource := make(map[model.Source]*model.SignalBundle, len(signals))
	for _, b := range signals {
		if b == nil {
			continue
		}
		if _, ok := bySource[b.Source]; !ok {
			bySource[b.Source] = b
		}
	}
	scrape := bySource[model.SourceScrape]
	maps := bySource[model.SourceMapPlace]
	search := bySource[model.SourceSearch]
	hint := bySource[model.SourceHint]

	rec := model.LeadRecord{LeadName: query}

	rec.Website = f.pickWebsite(search, maps)
	rec.CompanyName = firstField(model.FieldName, scrape, maps)

	// Maps ratings are fresher than whatever structured data the site
	// carries, so they override instead of fill.
	rec.Rating = lastField(model.FieldRating, scrape, maps)
	rec.ReviewCount = lastField(model.FieldReviewCount, scrape, maps)

	rec.City = firstField(model.FieldCity, scrape, maps)
	rec.Region = firstField(model.FieldRegion, scrape, maps)
	country := firstField(model.FieldCountry, scrape, maps)
	rec.Country = normalize.ExpandCountry(country, f.reg.Countries)

	if scrape != nil {
		rec.AllEmails = normalize.FilterEmailsByDomain(scrape.RawEmails, rec.Website)
	}
	if len(rec.AllEmails) > 0 {
		rec.Email = rec.AllEmails[0]
	}

	var rawPhones []string
	if scrape != nil {
		rawPhones = append(rawPhones, scrape.RawPhones...)
	}
	if maps != nil {
		rawPhones = append(rawPhones, maps.RawPhones...)
	}
	rec.AllPhones = normalize.CleanPhones(rawPhones)
	if len(rec.AllPhones) > 0 {
		rec.Phone = rec.AllPhones[0]
	}

	rec.LinkedIn = pickLinkedIn(hint, scrape)

	category := ""
	if maps != nil {
		category = maps.Field(model.FieldCategory)
	}
	industryType := ""
	if scrape != nil {
		industryType = normalize.SchemaIndustryType(scrape.Field(model.FieldSchemaType), f.reg.SchemaTypes)
	}
	segment, typeFromCategory := normalize.ClassifyIndustry(category, industryType, f.reg.Industries)
	rec.IndustrySegment = segment
	if industryType == "" {
		industryType = typeFromCategory
	}
	rec.IndustryType = industryType

	rec.Locations = joinLocations(scrape, maps)
	rec.Timezone = f.timezone(maps)

	return rec
}

// pickWebsite takes the first search candidate not on a blocked host,
// falling back to the first candidate outright, then lets a maps website
// override either.
func (f *Fuser) pickWebsite(search, maps *model.SignalBundle) string {
	var official string
	if search != nil && len(search.SiteCandidates) > 0 {
		for _, u := range search.SiteCandidates {
			if !normalize.IsBadHost(u, f.reg.BadHosts) {
				official = u
				break
			}
		}
		if official == "" {
			official = search.SiteCandidates[0]
		}
	}
	if maps != nil {
		if w := maps.Field(model.FieldWebsite); w != "" {
			official = w
		}
	}
	return official
}

func pickLinkedIn(hint, scrape *model.SignalBundle) string {
	var candidates []string
	if hint != nil {
		for _, u := range hint.RawLinks {
			if cl := normalize.CleanLinkedIn(u); cl != "" {
				candidates = append(candidates, cl)
			}
		}
	}
	if scrape != nil {
		for _, u := range scrape.RawLinks {
			if cl := normalize.CleanLinkedIn(u); cl != "" {
				candidates = append(candidates, cl)
			}
		}
	}
	seen := make(map[string]struct{}, len(candidates))
	var unique []string
	for _, u := range candidates {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return normalize.PickLinkedIn(unique)
}

func joinLocations(scrape, maps *model.SignalBundle) string {
	seen := make(map[string]struct{})
	var locs []string
	for _, b := range []*model.SignalBundle{scrape, maps} {
		if b == nil {
			continue
		}
		for _, l := range b.Locations {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			locs = append(locs, l)
		}
	}
	return strings.Join(locs, " | ")
}

func (f *Fuser) timezone(maps *model.SignalBundle) string {
	if f.tz == nil || maps == nil {
		return ""
	}
	lat, err1 := strconv.ParseFloat(maps.Field(model.FieldLatitude), 64)
	lng, err2 := strconv.ParseFloat(maps.Field(model.FieldLongitude), 64)
	if err1 != nil || err2 != nil {
		return ""
	}
	return f.tz.TimezoneAt(lat, lng)
}

// firstField returns the first non-empty value of the field across the
// bundles, in the given precedence order.
func firstField(field model.Field, bundles ...*model.SignalBundle) string {
	for _, b := range bundles {
		if b == nil {
			continue
		}
		if v := b.Field(field); v != "" {
			return v
		}
	}
	return ""
}

// lastField returns the last non-empty value, so later bundles override
// earlier ones.
func lastField(field model.Field, bundles ...*model.SignalBundle) string {
	out := ""
	for _, b := range bundles {
		if b == nil {
			continue
		}
		if v := b.Field(field); v != "" {
			out = v
		}
	}
	return out
}
