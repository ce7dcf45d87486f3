package synthetic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
)

func TestGenerator_Summary_MarkedSynthetic(t *testing.T) {
	g := New(1)

	s := g.Summary("buyer-1", "Jordan Blake")

	assert.Equal(t, Source, s.Source)
	assert.Equal(t, "buyer-1", s.BuyerID)
	assert.Equal(t, "Jordan Blake", s.BuyerName)
}

func TestGenerator_Summary_BucketSizesInRange(t *testing.T) {
	g := New(1)

	s := g.Summary("buyer-1", "Jordan Blake")

	assert.GreaterOrEqual(t, len(s.PropertyViews), 3)
	assert.LessOrEqual(t, len(s.PropertyViews), 7)
	assert.GreaterOrEqual(t, len(s.ClickEvents), 5)
	assert.LessOrEqual(t, len(s.ClickEvents), 10)
	assert.GreaterOrEqual(t, len(s.PageVisits), 3)
	assert.LessOrEqual(t, len(s.PageVisits), 5)
	assert.GreaterOrEqual(t, len(s.SearchHistory), 1)
	assert.LessOrEqual(t, len(s.SearchHistory), 3)
	assert.LessOrEqual(t, len(s.OfferHistory), 2)
	assert.GreaterOrEqual(t, len(s.EmailInteractions), 1)
	assert.LessOrEqual(t, len(s.EmailInteractions), 2)
	assert.GreaterOrEqual(t, len(s.SessionHistory), 1)
	assert.LessOrEqual(t, len(s.SessionHistory), 3)
}

func TestGenerator_Summary_EngagementConsistent(t *testing.T) {
	g := New(1)

	s := g.Summary("buyer-1", "Jordan Blake")

	assert.GreaterOrEqual(t, s.EngagementScore, 1)
	assert.LessOrEqual(t, s.EngagementScore, 100)
	assert.Equal(t, domain.EngagementLevelFor(s.EngagementScore), s.EngagementLevel)
	assert.False(t, s.LastActive.IsZero())
}

func TestGenerator_Summary_Reproducible(t *testing.T) {
	first := New(42).Summary("buyer-1", "Jordan Blake")
	second := New(42).Summary("buyer-1", "Jordan Blake")

	assert.Equal(t, len(first.PropertyViews), len(second.PropertyViews))
	assert.Equal(t, len(first.ClickEvents), len(second.ClickEvents))
	assert.Equal(t, first.EngagementScore, second.EngagementScore)
}

func TestGenerator_Events_WellFormed(t *testing.T) {
	g := New(1)

	events := g.Events("buyer-1", 25)

	assert.Len(t, events, 25)
	for _, event := range events {
		assert.Equal(t, "buyer-1", event.BuyerID)
		assert.NotEmpty(t, event.Type)
		assert.NotEmpty(t, event.Timestamp)

		_, categorized := domain.CategoryFor(event.Type)
		assert.True(t, categorized, event.Type)
	}
}
