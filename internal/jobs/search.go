package jobs

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
)

// Search runs a google search job and returns up to maxResults organic
// results. Newer builds of the search actor take "queries" as a string,
// older ones take "query"; both payloads are offered in that order.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	perPage := maxResults
	if perPage < 1 {
		perPage = 1
	}
	if perPage > 10 {
		perPage = 10
	}

	variants := []map[string]any{
		{
			"queries":                  query,
			"maxPagesPerQuery":         1,
			"resultsPerPage":           perPage,
			"includeUnfilteredResults": false,
		},
		{
			"query":                    query,
			"maxPagesPerQuery":         1,
			"resultsPerPage":           perPage,
			"includeUnfilteredResults": false,
		},
	}

	items, err := s.orch.Execute(ctx, orchestrator.JobRequest{
		Name:            "search",
		ActorID:         s.cfg.SearchActor,
		PayloadVariants: variants,
		Timeout:         s.cfg.SearchTimeout,
		PollInterval:    s.cfg.PollInterval,
	}, true, 0)
	if err != nil {
		return nil, eris.Wrapf(err, "jobs: search %q", query)
	}

	results := parseSearchItems(items)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	zap.L().Debug("jobs: search done", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// searchItem tolerates both item shapes the search actor family emits:
// an organicResults array, or flat url/title items.
type searchItem struct {
	OrganicResults []organicResult  `json:"organicResults"`
	URL            string           `json:"url"`
	Title          string           `json:"title"`
	Snippet        string           `json:"snippet"`
	Description    string           `json:"description"`
	Sitelinks      []model.SiteLink `json:"sitelinks"`
	SiteLinks      []model.SiteLink `json:"siteLinks"`
}

type organicResult struct {
	URL       string           `json:"url"`
	Title     string           `json:"title"`
	Snippet   string           `json:"snippet"`
	Sitelinks []model.SiteLink `json:"sitelinks"`
}

func parseSearchItems(items []json.RawMessage) []model.SearchResult {
	var results []model.SearchResult
	for _, raw := range items {
		var it searchItem
		if err := json.Unmarshal(raw, &it); err != nil {
			continue
		}

		if len(it.OrganicResults) > 0 {
			for _, r := range it.OrganicResults {
				if r.URL == "" {
					continue
				}
				results = append(results, model.SearchResult{
					URL:         r.URL,
					Title:       r.Title,
					Description: r.Snippet,
					SiteLinks:   r.Sitelinks,
				})
			}
			continue
		}

		if it.URL == "" {
			continue
		}
		desc := it.Snippet
		if desc == "" {
			desc = it.Description
		}
		links := it.Sitelinks
		if len(links) == 0 {
			links = it.SiteLinks
		}
		results = append(results, model.SearchResult{
			URL:         it.URL,
			Title:       it.Title,
			Description: desc,
			SiteLinks:   links,
		})
	}
	return results
}

// SearchBundle exposes the organic result URLs as ranked website
// candidates.
func SearchBundle(results []model.SearchResult) *model.SignalBundle {
	b := model.NewSignalBundle(model.SourceSearch)
	for _, r := range results {
		b.AddSiteCandidate(r.URL)
	}
	return b
}

// LinkedInDiscoveryQuery narrows a search query to LinkedIn company pages.
func LinkedInDiscoveryQuery(query string) string {
	return query + " site:linkedin.com/company"
}

// PickCompanyLinkedIn returns the first cleaned company-page URL from
// discovery search results, or "".
func PickCompanyLinkedIn(results []model.SearchResult) string {
	for _, r := range results {
		u := normalize.CleanLinkedIn(r.URL)
		if strings.Contains(u, "linkedin.com/company/") {
			return u
		}
	}
	return ""
}
