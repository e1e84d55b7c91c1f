package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeysSeparateSeasons(t *testing.T) {
	assert.Equal(t, "fpl:bootstrap:current", BootstrapCacheKey(""))
	assert.Equal(t, "fpl:bootstrap:2023-24", BootstrapCacheKey("2023-24"))
	assert.NotEqual(t, BootstrapCacheKey(""), BootstrapCacheKey("2023-24"),
		"seasons must not share a bootstrap cache entry")

	assert.Equal(t, "fpl:fixtures:current", FixturesCacheKey(""))
	assert.Equal(t, "fpl:fixtures:2023-24", FixturesCacheKey("2023-24"))

	assert.Equal(t, "fpl:team:42", TeamCacheKey(42))
}
