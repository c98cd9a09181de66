package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PageResult is the per-page output contract of the embedded page function.
// Every field is optional; scraper items sometimes nest this under a
// "pageFunctionResult" key, which DecodePageResult tolerates.
type PageResult struct {
	PageURL     string      `json:"pageUrl"`
	SiteName    string      `json:"siteName"`
	Title       string      `json:"title"`
	Emails      []string    `json:"emails"`
	Phones      []string    `json:"phones"`
	LinkedIns   []string    `json:"linkedins"`
	RatingValue FlexString  `json:"ratingValue"`
	ReviewCount FlexString  `json:"reviewCount"`
	Address     PageAddress `json:"address"`
	SchemaType  string      `json:"schemaType"`

	StructuredTelephones []string `json:"structuredTelephones"`
}

// PageAddress is structured-data address material found on a page.
type PageAddress struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// DecodePageResult unmarshals a raw dataset item into a PageResult,
// unwrapping a pageFunctionResult envelope when present.
func DecodePageResult(raw []byte) (*PageResult, error) {
	var envelope struct {
		PageFunctionResult json.RawMessage `json:"pageFunctionResult"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.PageFunctionResult) > 0 &&
		!bytes.Equal(envelope.PageFunctionResult, []byte("null")) {
		raw = envelope.PageFunctionResult
	}
	var pr PageResult
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// FlexString accepts a JSON string or number and normalizes it to a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Float parses the value as a float, returning ok=false on failure.
func (f FlexString) Float() (float64, bool) {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
