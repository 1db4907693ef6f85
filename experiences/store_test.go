package experiences

import (
	"testing"
	"time"

	"roamio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSearchFilterAlwaysPublishedOnly(t *testing.T) {
	queries := []BrowseQuery{
		{},
		{Location: "nyc"},
		{Location: "a.b*c"}, // regex metacharacters must be escaped
	}
	for _, q := range queries {
		filter := searchFilter(q)
		assert.Equal(t, models.StatusPublished, filter["status"])
	}
}

func TestSearchFilterLocationEscaped(t *testing.T) {
	filter := searchFilter(BrowseQuery{Location: "a.b*c"})
	loc, ok := filter["location"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, `a\.b\*c`, loc["$regex"])
	assert.Equal(t, "i", loc["$options"])
}

func TestSearchFilterTimeRange(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	filter := searchFilter(BrowseQuery{From: &from, To: &to})
	rng, ok := filter["start_time"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, from, rng["$gte"])
	assert.Equal(t, to, rng["$lte"])

	// No bound, no clause.
	filter = searchFilter(BrowseQuery{})
	_, ok = filter["start_time"]
	assert.False(t, ok)
}
