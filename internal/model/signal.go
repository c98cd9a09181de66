package model

// Source identifies where a signal bundle came from. Fusion precedence is
// Scrape > MapPlace > Search > Hint for scalar fields.
type Source string

const (
	SourceScrape   Source = "scrape"
	SourceMapPlace Source = "maps"
	SourceSearch   Source = "search"
	SourceHint     Source = "hint"
)

// Field names a scalar slot inside a SignalBundle.
type Field string

const (
	FieldName        Field = "name"
	FieldWebsite     Field = "website"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldRating      Field = "rating"
	FieldReviewCount Field = "review_count"
	FieldCity        Field = "city"
	FieldRegion      Field = "region"
	FieldCountry     Field = "country"
	FieldSchemaType  Field = "schema_type"
	FieldLatitude    Field = "lat"
	FieldLongitude   Field = "lng"
)

// SignalBundle is one source's contribution to a lead. Builders populate it
// and the fusion engine only reads it.
type SignalBundle struct {
	Source Source

	// Fields holds scalar values keyed by Field. Empty values are never set.
	Fields map[Field]string

	// Raw contact material, first-occurrence order, deduplicated.
	RawEmails []string
	RawPhones []string
	RawLinks  []string

	// SiteCandidates are website URLs in preference order.
	SiteCandidates []string

	// Locations are composite "city, region, country" strings in the order
	// the source reported them.
	Locations []string
}

// NewSignalBundle returns an empty bundle for the given source.
func NewSignalBundle(src Source) *SignalBundle {
	return &SignalBundle{Source: src, Fields: make(map[Field]string)}
}

// SetField records a scalar value, ignoring empty strings and keeping the
// first value seen for a field.
func (b *SignalBundle) SetField(f Field, v string) {
	if v == "" {
		return
	}
	if _, ok := b.Fields[f]; ok {
		return
	}
	b.Fields[f] = v
}

// Field returns the scalar value for f, or "".
func (b *SignalBundle) Field(f Field) string {
	if b == nil || b.Fields == nil {
		return ""
	}
	return b.Fields[f]
}

func (b *SignalBundle) AddEmail(v string)         { b.RawEmails = appendUnique(b.RawEmails, v) }
func (b *SignalBundle) AddPhone(v string)         { b.RawPhones = appendUnique(b.RawPhones, v) }
func (b *SignalBundle) AddLink(v string)          { b.RawLinks = appendUnique(b.RawLinks, v) }
func (b *SignalBundle) AddSiteCandidate(v string) { b.SiteCandidates = appendUnique(b.SiteCandidates, v) }
func (b *SignalBundle) AddLocation(v string)      { b.Locations = appendUnique(b.Locations, v) }

// appendUnique appends v unless it is empty or already present. Bundles are
// small, a linear scan is fine.
func appendUnique(dst []string, v string) []string {
	if v == "" {
		return dst
	}
	for _, existing := range dst {
		if existing == v {
			return dst
		}
	}
	return append(dst, v)
}
