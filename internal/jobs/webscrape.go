package jobs

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
)

// contactPaths are the site sections most likely to carry contact details.
var contactPaths = []string{
	"/",
	"/contact",
	"/contact-us",
	"/about",
	"/about-us",
	"/locations",
	"/our-hotels",
	"/team",
	"/leadership",
}

// CandidateURLs expands a company's main URL into the pages worth scraping:
// the URL itself, the usual contact and about sections, and any site links
// the search result carried. Order is preserved and duplicates dropped.
func CandidateURLs(mainURL string, siteLinks []model.SiteLink) []string {
	if mainURL == "" {
		return nil
	}
	base, err := url.Parse(mainURL)
	if err != nil {
		return nil
	}

	candidates := []string{mainURL}
	for _, p := range contactPaths {
		ref, err := url.Parse(p)
		if err != nil {
			continue
		}
		candidates = append(candidates, base.ResolveReference(ref).String())
	}
	for _, sl := range siteLinks {
		if sl.URL != "" {
			candidates = append(candidates, sl.URL)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, u := range candidates {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// ScrapeSite runs the web-scraper actor over the candidate URLs and decodes
// the per-page results. Items that fail to decode are skipped.
func (s *Service) ScrapeSite(ctx context.Context, urls []string) ([]model.PageResult, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	startURLs := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		startURLs = append(startURLs, map[string]any{"url": u})
	}

	payload := map[string]any{
		"startUrls":                 startURLs,
		"maxRequestsPerCrawl":       s.cfg.MaxCrawlPages,
		"maxConcurrency":            1,
		"pageFunction":              pageFunction,
		"useChrome":                 true,
		"ignoreSslErrors":           true,
		"downloadMedia":             false,
		"downloadCss":               false,
		"downloadJavascript":        false,
		"maxRequestRetries":         1,
		"requestHandlerTimeoutSecs": 60,
	}

	items, err := s.orch.Execute(ctx, orchestrator.JobRequest{
		Name:            "webscrape",
		ActorID:         s.cfg.WebScraperActor,
		PayloadVariants: []map[string]any{payload},
		Timeout:         s.cfg.ScrapeTimeout,
		PollInterval:    s.cfg.PollInterval,
	}, true, 0)
	if err != nil {
		return nil, eris.Wrap(err, "jobs: web scrape")
	}

	var pages []model.PageResult
	for _, raw := range items {
		pr, err := model.DecodePageResult(raw)
		if err != nil {
			zap.L().Debug("jobs: skip undecodable page result", zap.Error(err))
			continue
		}
		pages = append(pages, *pr)
	}
	return pages, nil
}

// ScrapeBundle folds per-page results into one scrape signal bundle.
// Scalars keep the first value seen; contact lists keep first-occurrence
// order. The schema type slot only takes types that map to an industry, so
// a generic WebSite schema on the landing page does not mask a Hotel schema
// deeper in.
func (s *Service) ScrapeBundle(pages []model.PageResult) *model.SignalBundle {
	b := model.NewSignalBundle(model.SourceScrape)
	for _, p := range pages {
		for _, e := range p.Emails {
			b.AddEmail(e)
		}
		for _, ph := range p.Phones {
			b.AddPhone(ph)
		}
		for _, ph := range p.StructuredTelephones {
			b.AddPhone(ph)
		}
		for _, l := range p.LinkedIns {
			if cl := normalize.CleanLinkedIn(l); cl != "" {
				b.AddLink(cl)
			}
		}

		b.SetField(model.FieldRating, p.RatingValue.String())
		b.SetField(model.FieldReviewCount, p.ReviewCount.String())
		b.SetField(model.FieldName, normalize.GuessCompanyName(p.SiteName, p.Title))
		b.SetField(model.FieldCity, p.Address.City)
		b.SetField(model.FieldRegion, p.Address.Region)
		b.SetField(model.FieldCountry, p.Address.Country)
		b.AddLocation(composeLocation(p.Address.City, p.Address.Region, p.Address.Country))

		if b.Field(model.FieldSchemaType) == "" &&
			normalize.SchemaIndustryType(p.SchemaType, s.reg.SchemaTypes) != "" {
			b.SetField(model.FieldSchemaType, p.SchemaType)
		}
	}
	return b
}
