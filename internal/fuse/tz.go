package fuse

import (
	"github.com/ringsaturn/tzf"
	"github.com/rotisserie/eris"
)

type tzfFinder struct {
	finder tzf.F
}

// NewTimezoneFinder builds a TimezoneFinder backed by embedded timezone
// boundary data.
func NewTimezoneFinder() (TimezoneFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, eris.Wrap(err, "fuse: init timezone finder")
	}
	return &tzfFinder{finder: f}, nil
}

func (t *tzfFinder) TimezoneAt(lat, lng float64) string {
	return t.finder.GetTimezoneName(lng, lat)
}
