package librarian

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/pkg/logger"
)

func TestRegisterWikipediaResources(t *testing.T) {
	reg := NewRegistry(logger.NewTestLogger())
	require.NoError(t, RegisterWikipediaResources(reg))

	uris := []string{
		"wikipedia://languages",
		"wikipedia://api-endpoints",
		"wikipedia://usage-examples",
		"wikipedia://best-practices",
		"wikipedia://schema/search-result",
		"wikipedia://schema/page-info",
	}

	resources := reg.Resources()
	require.Len(t, resources, len(uris))

	for _, uri := range uris {
		res, ok := reg.GetResource(uri)
		require.True(t, ok, "resource %s not registered", uri)
		assert.NotEmpty(t, res.Name)
		assert.NotEmpty(t, res.Description)

		content, err := res.Content()
		require.NoError(t, err, "resource %s content", uri)

		var decoded interface{}
		assert.NoError(t, json.Unmarshal([]byte(content), &decoded),
			"resource %s must render valid JSON", uri)
	}
}

func TestRegisterWikipediaResourcesTwiceFails(t *testing.T) {
	reg := NewRegistry(logger.NewTestLogger())
	require.NoError(t, RegisterWikipediaResources(reg))
	assert.Error(t, RegisterWikipediaResources(reg))
}
