package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
	"github.com/sells-group/prospect-cli/internal/registry"
	"github.com/sells-group/prospect-cli/pkg/apify"
)

type stubClient struct {
	start   func(actorID string, payload map[string]any) (*apify.Run, error)
	items   func(datasetID string, clean bool, limit int) ([]json.RawMessage, error)
	submits []map[string]any
}

func (s *stubClient) StartActor(_ context.Context, actorID string, payload map[string]any) (*apify.Run, error) {
	s.submits = append(s.submits, payload)
	return s.start(actorID, payload)
}

func (s *stubClient) GetRun(_ context.Context, runID string) (*apify.Run, error) {
	return &apify.Run{ID: runID, Status: apify.StatusSucceeded, DefaultDatasetID: "ds-1"}, nil
}

func (s *stubClient) DatasetItems(_ context.Context, datasetID string, clean bool, limit int) ([]json.RawMessage, error) {
	return s.items(datasetID, clean, limit)
}

func newTestService(stub *stubClient) *Service {
	return NewService(orchestrator.New(stub), registry.MustLoad(), Config{
		SearchActor:           "apify~google-search-scraper",
		WebScraperActor:       "apify~web-scraper",
		MapsActor:             "compass~crawler-google-places",
		SalesNavActor:         "vendor~sales-nav-misspelled",
		SalesNavFallbackActor: "vendor~sales-nav",
		SalesNavCookieString:  "li_at=abc",
	})
}

func rawItems(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		out = append(out, json.RawMessage(it))
	}
	return out
}

func TestSearchVariantFallback(t *testing.T) {
	stub := &stubClient{
		items: func(string, bool, int) ([]json.RawMessage, error) {
			return rawItems(`{"organicResults":[{"url":"https://acme.com","title":"Acme"}]}`), nil
		},
	}
	stub.start = func(actorID string, payload map[string]any) (*apify.Run, error) {
		if _, ok := payload["queries"]; ok {
			return nil, &apify.APIError{StatusCode: http.StatusBadRequest, Body: "queries must be string"}
		}
		return &apify.Run{ID: "r1", Status: "RUNNING", DefaultDatasetID: "ds-1"}, nil
	}
	svc := newTestService(stub)

	results, err := svc.Search(context.Background(), "Acme", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://acme.com", results[0].URL)

	require.Len(t, stub.submits, 2)
	assert.Contains(t, stub.submits[0], "queries")
	assert.Contains(t, stub.submits[1], "query")
	assert.Equal(t, 5, stub.submits[1]["resultsPerPage"])
}

func TestParseSearchItems(t *testing.T) {
	items := rawItems(
		`{"organicResults":[{"url":"https://a.com","title":"A","snippet":"sa","sitelinks":[{"url":"https://a.com/contact","title":"Contact"}]},{"url":"https://b.com"}]}`,
		`{"url":"https://c.com","title":"C","description":"dc"}`,
		`{"title":"no url"}`,
	)
	results := parseSearchItems(items)
	require.Len(t, results, 3)
	assert.Equal(t, "https://a.com", results[0].URL)
	assert.Equal(t, "sa", results[0].Description)
	require.Len(t, results[0].SiteLinks, 1)
	assert.Equal(t, "https://a.com/contact", results[0].SiteLinks[0].URL)
	assert.Equal(t, "https://b.com", results[1].URL)
	// Flat items fall back to the description field for the snippet.
	assert.Equal(t, "dc", results[2].Description)
}

func TestPickCompanyLinkedIn(t *testing.T) {
	results := []model.SearchResult{
		{URL: "https://www.linkedin.com/in/someone"},
		{URL: "https://www.linkedin.com/company/acme/posts/?feed=x"},
	}
	assert.Equal(t, "https://www.linkedin.com/company/acme", PickCompanyLinkedIn(results))
	assert.Equal(t, "", PickCompanyLinkedIn(nil))
	assert.Equal(t, "Acme site:linkedin.com/company", LinkedInDiscoveryQuery("Acme"))
}

func TestCandidateURLs(t *testing.T) {
	urls := CandidateURLs("https://acme.com/products", []model.SiteLink{
		{URL: "https://acme.com/careers", Title: "Careers"},
		{URL: "https://acme.com/contact", Title: "Contact"}, // duplicate of an expanded path
	})

	require.NotEmpty(t, urls)
	assert.Equal(t, "https://acme.com/products", urls[0])
	assert.Contains(t, urls, "https://acme.com/")
	assert.Contains(t, urls, "https://acme.com/contact")
	assert.Contains(t, urls, "https://acme.com/our-hotels")
	assert.Contains(t, urls, "https://acme.com/careers")

	seen := map[string]int{}
	for _, u := range urls {
		seen[u]++
	}
	for u, n := range seen {
		assert.Equal(t, 1, n, u)
	}

	assert.Nil(t, CandidateURLs("", nil))
}

func TestScrapeBundle(t *testing.T) {
	svc := newTestService(&stubClient{})
	pages := []model.PageResult{
		{
			SiteName:   "Grand Hotel | Official Site",
			Emails:     []string{"info@grand.com", "spam@other.com"},
			Phones:     []string{"+44 20 7946 0958"},
			LinkedIns:  []string{"https://linkedin.com/company/grand/?trk=1"},
			SchemaType: "WebSite",
			Address:    model.PageAddress{City: "London", Country: "GB"},
		},
		{
			Emails:               []string{"info@grand.com"},
			StructuredTelephones: []string{"+44 20 7946 0958"},
			RatingValue:          "4.6",
			ReviewCount:          "210",
			SchemaType:           "Hotel",
			Address:              model.PageAddress{City: "Leeds", Region: "Yorkshire", Country: "GB"},
		},
	}

	b := svc.ScrapeBundle(pages)
	assert.Equal(t, model.SourceScrape, b.Source)
	assert.Equal(t, []string{"info@grand.com", "spam@other.com"}, b.RawEmails)
	assert.Equal(t, []string{"+44 20 7946 0958"}, b.RawPhones)
	assert.Equal(t, []string{"https://linkedin.com/company/grand"}, b.RawLinks)
	assert.Equal(t, "Grand Hotel", b.Field(model.FieldName))
	assert.Equal(t, "4.6", b.Field(model.FieldRating))
	assert.Equal(t, "210", b.Field(model.FieldReviewCount))
	assert.Equal(t, "London", b.Field(model.FieldCity))
	assert.Equal(t, "GB", b.Field(model.FieldCountry))
	// A generic WebSite schema does not take the slot; the Hotel schema on
	// a later page does.
	assert.Equal(t, "Hotel", b.Field(model.FieldSchemaType))
	assert.Equal(t, []string{"London, GB", "Leeds, Yorkshire, GB"}, b.Locations)
}

func TestMapsLookupCompassFields(t *testing.T) {
	stub := &stubClient{
		items: func(string, bool, int) ([]json.RawMessage, error) {
			return rawItems(`{
				"title": "Grand Hotel",
				"website": "https://grand.com",
				"phone": "+44 20 7946 0958",
				"phoneUnformatted": "+442079460958",
				"totalScore": 4.4,
				"reviewsCount": 120,
				"city": "London",
				"state": "England",
				"countryCode": "GB",
				"categoryName": "Hotel",
				"location": {"lat": 51.5, "lng": -0.12}
			}`), nil
		},
	}
	stub.start = func(actorID string, payload map[string]any) (*apify.Run, error) {
		return &apify.Run{ID: "r1", Status: "RUNNING", DefaultDatasetID: "ds-1"}, nil
	}
	svc := newTestService(stub)

	b, err := svc.MapsLookup(context.Background(), "Grand Hotel London")
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, model.SourceMapPlace, b.Source)
	assert.Equal(t, "Grand Hotel", b.Field(model.FieldName))
	assert.Equal(t, "https://grand.com", b.Field(model.FieldWebsite))
	assert.Equal(t, "4.4", b.Field(model.FieldRating))
	assert.Equal(t, "120", b.Field(model.FieldReviewCount))
	assert.Equal(t, "GB", b.Field(model.FieldCountry))
	assert.Equal(t, "Hotel", b.Field(model.FieldCategory))
	assert.Equal(t, []string{"+44 20 7946 0958", "+442079460958"}, b.RawPhones)
	assert.Equal(t, []string{"London, England, GB"}, b.Locations)
	assert.Equal(t, "51.5", b.Field(model.FieldLatitude))
	assert.Equal(t, "-0.12", b.Field(model.FieldLongitude))
}

func TestMapsLookupRunFailureIsSoft(t *testing.T) {
	svc := NewService(orchestrator.New(&failedRunClient{}), registry.MustLoad(), Config{MapsActor: "compass~crawler-google-places"})

	b, err := svc.MapsLookup(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, b)
}

type failedRunClient struct{}

func (f *failedRunClient) StartActor(context.Context, string, map[string]any) (*apify.Run, error) {
	return &apify.Run{ID: "r1", Status: "RUNNING"}, nil
}

func (f *failedRunClient) GetRun(_ context.Context, runID string) (*apify.Run, error) {
	return &apify.Run{ID: runID, Status: apify.StatusFailed}, nil
}

func (f *failedRunClient) DatasetItems(context.Context, string, bool, int) ([]json.RawMessage, error) {
	return nil, nil
}

func TestBuildSalesNavURL(t *testing.T) {
	u := BuildSalesNavURL("Hospitality", 50, 5000, []string{"101165590", "103350119"})

	assert.True(t, validSalesNavURL(u))
	// Keyword quotes are double-encoded by the outer query escape.
	assert.Contains(t, u, "%2522hotel%2522")
	assert.Contains(t, u, "companyHeadcountRanges:List((start:50,end:5000))")
	assert.Contains(t, u, "geoIncluded:List(101165590,103350119)")
	// Hospitality already sits in the base keyword expression.
	assert.NotContains(t, u, "Hospitality")

	u2 := BuildSalesNavURL("Logistics", 10, 100, []string{"101282230"})
	assert.Contains(t, u2, "Logistics")
}

func TestPayloadVariantOrdering(t *testing.T) {
	f := Filters{IndustryFocus: "Hospitality", SizeMin: 50, SizeMax: 5000, Countries: []string{"Italy"}, Roles: []string{"CEO"}}

	plain := payloadVariants(f, "search-companies", "cookie", "", 1)
	require.Len(t, plain, 6)
	for i := 0; i < 3; i++ {
		assert.Contains(t, plain[i], "body", "variant %d should be body-wrapped", i)
	}
	for i := 3; i < 6; i++ {
		assert.NotContains(t, plain[i], "body", "variant %d should be top-level", i)
	}
	body := plain[0]["body"].(map[string]any)
	assert.Contains(t, body, "filters")
	assert.Contains(t, plain[2]["body"].(map[string]any), "companySizeRange")

	withURL := payloadVariants(f, "search-companies-via-url", "cookie", "https://www.linkedin.com/sales/search/company?query=x", 2)
	require.Len(t, withURL, 8)
	assert.Contains(t, withURL[3]["body"].(map[string]any), "search_url")
	assert.Contains(t, withURL[7], "search_url")
}

func TestFilterSearch(t *testing.T) {
	stub := &stubClient{
		items: func(string, bool, int) ([]json.RawMessage, error) {
			return rawItems(
				`{"companyName":"B&B Hotels","companySize":3000,"country":"Italy","city":"Milan","website":"https://www.hotel-bb.com"}`,
				`{"companyName":"Tiny Inn","companySize":10,"country":"Italy"}`,
				`{"companyName":"Premier Inns","companySize":3500,"country":"United Kingdom"}`,
			), nil
		},
	}
	stub.start = func(actorID string, payload map[string]any) (*apify.Run, error) {
		if actorID == "vendor~sales-nav-misspelled" {
			return nil, &apify.APIError{StatusCode: http.StatusNotFound, Body: "Actor was not found"}
		}
		return &apify.Run{ID: "r1", Status: "RUNNING", DefaultDatasetID: "ds-1"}, nil
	}
	svc := newTestService(stub)

	leads, err := svc.FilterSearch(context.Background(), Filters{
		IndustryFocus: "Hospitality",
		SizeMin:       50,
		SizeMax:       5000,
		Countries:     []string{"Italy"},
		Roles:         []string{"CEO"},
	})
	require.NoError(t, err)

	// Out-of-range size and out-of-country rows are dropped.
	require.Len(t, leads, 1)
	assert.Equal(t, "B&B Hotels", leads[0].CompanyName)
	assert.Equal(t, 3000, leads[0].Size())

	// The misspelled actor id fell through to the fallback target with the
	// same url-mode payload.
	require.GreaterOrEqual(t, len(stub.submits), 2)
	assert.Contains(t, stub.submits[0], "url")
	assert.Equal(t, stub.submits[0]["url"], stub.submits[1]["url"])
}

func TestFilterSearchCookiesMissing(t *testing.T) {
	svc := NewService(orchestrator.New(&stubClient{}), registry.MustLoad(), Config{})
	_, err := svc.FilterSearch(context.Background(), Filters{Countries: []string{"Italy"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookies missing")
}

func TestFilterSearchNoGeoIDs(t *testing.T) {
	svc := NewService(orchestrator.New(&stubClient{}), registry.MustLoad(), Config{SalesNavCookieString: "li_at=x"})
	_, err := svc.FilterSearch(context.Background(), Filters{Countries: []string{"Atlantis"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geo ids")
}
