package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
)

// mapsPlace tolerates both the Compass field names (totalScore,
// reviewsCount, phoneUnformatted, countryCode) and the legacy ones.
type mapsPlace struct {
	Title                    string           `json:"title"`
	Name                     string           `json:"name"`
	Website                  string           `json:"website"`
	Phone                    string           `json:"phone"`
	PhoneUnformatted         string           `json:"phoneUnformatted"`
	InternationalPhoneNumber string           `json:"internationalPhoneNumber"`
	Rating                   model.FlexString `json:"rating"`
	TotalScore               model.FlexString `json:"totalScore"`
	UserRatingsTotal         model.FlexString `json:"userRatingsTotal"`
	ReviewsCount             model.FlexString `json:"reviewsCount"`
	City                     string           `json:"city"`
	State                    string           `json:"state"`
	Country                  string           `json:"country"`
	CountryCode              string           `json:"countryCode"`
	CategoryName             string           `json:"categoryName"`
	Location                 *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// MapsLookup runs a place lookup for the query and returns a maps signal
// bundle, or nil when the place cannot be found. Lookup failures on the
// remote side are soft; enrichment is optional.
func (s *Service) MapsLookup(ctx context.Context, query string) (*model.SignalBundle, error) {
	base := map[string]any{
		"maxCrawledPlacesPerSearch": 1,
		"language":                  "en",
		"maxReviews":                0,
		"maxImages":                 0,
	}
	withArray := map[string]any{"searchStringsArray": []string{query}}
	withString := map[string]any{"searchString": query}
	for k, v := range base {
		withArray[k] = v
		withString[k] = v
	}

	items, err := s.orch.Execute(ctx, orchestrator.JobRequest{
		Name:            "maps",
		ActorID:         s.cfg.MapsActor,
		PayloadVariants: []map[string]any{withArray, withString},
		Timeout:         s.cfg.MapsTimeout,
		PollInterval:    s.cfg.PollInterval,
	}, true, 0)
	if err != nil {
		var failure *orchestrator.RunFailure
		var timeout *orchestrator.TimeoutError
		if errors.As(err, &failure) || errors.As(err, &timeout) {
			zap.L().Warn("jobs: maps enrichment unavailable", zap.String("query", query), zap.Error(err))
			return nil, nil
		}
		return nil, eris.Wrapf(err, "jobs: maps lookup %q", query)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var place mapsPlace
	if err := json.Unmarshal(items[0], &place); err != nil {
		return nil, eris.Wrap(err, "jobs: decode maps place")
	}
	return mapsBundle(&place), nil
}

func mapsBundle(p *mapsPlace) *model.SignalBundle {
	b := model.NewSignalBundle(model.SourceMapPlace)

	name := p.Title
	if name == "" {
		name = p.Name
	}
	b.SetField(model.FieldName, name)
	b.SetField(model.FieldWebsite, p.Website)
	b.SetField(model.FieldCategory, p.CategoryName)

	rating := p.Rating.String()
	if rating == "" {
		rating = p.TotalScore.String()
	}
	b.SetField(model.FieldRating, rating)

	reviews := p.UserRatingsTotal.String()
	if reviews == "" {
		reviews = p.ReviewsCount.String()
	}
	b.SetField(model.FieldReviewCount, reviews)

	country := p.Country
	if country == "" {
		country = p.CountryCode
	}
	b.SetField(model.FieldCity, p.City)
	b.SetField(model.FieldRegion, p.State)
	b.SetField(model.FieldCountry, country)

	intl := p.PhoneUnformatted
	if intl == "" {
		intl = p.InternationalPhoneNumber
	}
	b.AddPhone(p.Phone)
	b.AddPhone(intl)

	b.AddLocation(composeLocation(p.City, p.State, country))

	if p.Location != nil {
		b.SetField(model.FieldLatitude, strconv.FormatFloat(p.Location.Lat, 'f', -1, 64))
		b.SetField(model.FieldLongitude, strconv.FormatFloat(p.Location.Lng, 'f', -1, 64))
	}
	return b
}
