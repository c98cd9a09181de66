package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "United Kingdom", r.Countries["GB"])
	assert.Equal(t, "India", r.Countries["IN"])
	assert.Contains(t, r.BadHosts, "linkedin.com")

	require.NotEmpty(t, r.Industries)
	assert.Equal(t, "Hospitality", r.Industries[0].Segment)
	assert.Contains(t, r.Industries[0].Keywords, "hotel")
	require.NotEmpty(t, r.Industries[0].Types)
	assert.Equal(t, "Hotel", r.Industries[0].Types[0].Type)

	require.NotEmpty(t, r.SchemaTypes)
	assert.Equal(t, "hotel", r.SchemaTypes[0].Keyword)
	assert.NotEmpty(t, r.RoleFilters)
	assert.Equal(t, "101165590", r.SalesNavGeos["United Kingdom"])
}
