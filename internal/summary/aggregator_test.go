package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/normalize"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newAggregator() *Aggregator {
	log := zap.NewNop()
	return NewAggregator(normalize.New(log), log)
}

func event(eventType string, offset time.Duration, data map[string]interface{}) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		Type:      eventType,
		BuyerID:   "buyer-1",
		Timestamp: testTime.Add(offset),
		EventData: data,
	}
}

func TestAggregator_Build_PartitionsByCategory(t *testing.T) {
	aggregator := newAggregator()

	events := []*domain.ActivityEvent{
		event(domain.TypePropertyView, 0, nil),
		event(domain.TypeClick, time.Minute, nil),
		event(domain.TypePageView, 2*time.Minute, nil),
		event(domain.TypeSearch, 3*time.Minute, nil),
		event(domain.TypeSearchQuery, 4*time.Minute, nil),
		event(domain.TypeOfferSubmission, 5*time.Minute, nil),
		event(domain.TypeEmailInteraction, 6*time.Minute, map[string]interface{}{"opened": true}),
		event(domain.TypeSessionStart, 7*time.Minute, nil),
		event(domain.TypeSessionEnd, 8*time.Minute, nil),
	}

	s := aggregator.Build("buyer-1", "Jordan Blake", events)

	assert.Equal(t, "buyer-1", s.BuyerID)
	assert.Equal(t, "Jordan Blake", s.BuyerName)
	assert.Len(t, s.PropertyViews, 1)
	assert.Len(t, s.ClickEvents, 1)
	assert.Len(t, s.PageVisits, 1)
	assert.Len(t, s.SearchHistory, 2)
	assert.Len(t, s.OfferHistory, 1)
	assert.Len(t, s.EmailInteractions, 1)
	assert.Len(t, s.SessionHistory, 2)
}

func TestAggregator_Build_SkipsUncategorizedTypes(t *testing.T) {
	aggregator := newAggregator()

	events := []*domain.ActivityEvent{
		event(domain.TypePropertyView, 0, nil),
		event("mystery_event", time.Minute, nil),
	}

	s := aggregator.Build("buyer-1", "", events)

	assert.Len(t, s.PropertyViews, 1)
	assert.Empty(t, s.ClickEvents)
}

func TestAggregator_Build_PropertyViewsNewestFirst(t *testing.T) {
	aggregator := newAggregator()

	events := []*domain.ActivityEvent{
		event(domain.TypePropertyView, 0, map[string]interface{}{"propertyId": "old"}),
		event(domain.TypePropertyView, time.Hour, map[string]interface{}{"propertyId": "new"}),
	}

	s := aggregator.Build("buyer-1", "", events)

	assert.Equal(t, "new", s.PropertyViews[0].PropertyID)
	assert.Equal(t, "old", s.PropertyViews[1].PropertyID)
	assert.Equal(t, testTime.Add(time.Hour), s.LastActive)
}

func TestAggregator_Build_LastActiveDefaultsToNow(t *testing.T) {
	aggregator := newAggregator()

	before := time.Now().UTC()
	s := aggregator.Build("buyer-1", "", []*domain.ActivityEvent{
		event(domain.TypeClick, 0, nil),
	})
	after := time.Now().UTC()

	assert.False(t, s.LastActive.Before(before))
	assert.False(t, s.LastActive.After(after))
}

func TestAggregator_EngagementScore_EmptyBuyerScoresZero(t *testing.T) {
	aggregator := newAggregator()

	s := aggregator.Build("buyer-1", "", nil)

	assert.Equal(t, 0, s.EngagementScore)
	assert.Equal(t, "Low", s.EngagementLevel)
}

func TestAggregator_EngagementScore_SingleViewScoresFour(t *testing.T) {
	aggregator := newAggregator()

	s := aggregator.Build("buyer-1", "", []*domain.ActivityEvent{
		event(domain.TypePropertyView, 0, nil),
	})

	assert.Equal(t, 4, s.EngagementScore)
}

func TestAggregator_EngagementScore_WeightedSum(t *testing.T) {
	aggregator := newAggregator()

	// 1 view + 1 offer (x3) = 4 weighted interactions, scaled to 16.
	events := []*domain.ActivityEvent{
		event(domain.TypePropertyView, 0, map[string]interface{}{"duration": float64(90)}),
		event(domain.TypeOfferSubmission, time.Minute, map[string]interface{}{"amount": float64(50000)}),
	}

	s := aggregator.Build("buyer-1", "", events)

	assert.Equal(t, 16, s.EngagementScore)
	assert.Equal(t, "Low", s.EngagementLevel)
	assert.Equal(t, 90, s.PropertyViews[0].Duration)
	assert.Equal(t, float64(50000), s.OfferHistory[0].Amount)
}

func TestAggregator_EngagementScore_OnlyOpenedEmailsCount(t *testing.T) {
	aggregator := newAggregator()

	// One opened email (x2) scaled to 8; the unopened one contributes nothing.
	events := []*domain.ActivityEvent{
		event(domain.TypeEmailInteraction, 0, map[string]interface{}{"opened": true}),
		event(domain.TypeEmailInteraction, time.Minute, map[string]interface{}{"opened": false}),
	}

	s := aggregator.Build("buyer-1", "", events)

	assert.Equal(t, 8, s.EngagementScore)
}

func TestAggregator_EngagementScore_CapsAt100(t *testing.T) {
	aggregator := newAggregator()

	events := make([]*domain.ActivityEvent, 0, 40)
	for i := 0; i < 40; i++ {
		events = append(events, event(domain.TypeClick, time.Duration(i)*time.Minute, nil))
	}

	s := aggregator.Build("buyer-1", "", events)

	assert.Equal(t, 100, s.EngagementScore)
	assert.Equal(t, "High", s.EngagementLevel)
}

func TestAggregator_EngagementScore_SessionOnlyBuyerScoresOne(t *testing.T) {
	aggregator := newAggregator()

	// Sessions carry no weight, but a buyer with any events floors at 1.
	events := []*domain.ActivityEvent{
		event(domain.TypeSessionStart, 0, nil),
	}

	s := aggregator.Build("buyer-1", "", events)

	assert.Equal(t, 1, s.EngagementScore)
}

func TestEngagementLevelBands(t *testing.T) {
	assert.Equal(t, "Low", domain.EngagementLevelFor(0))
	assert.Equal(t, "Low", domain.EngagementLevelFor(49))
	assert.Equal(t, "Medium", domain.EngagementLevelFor(50))
	assert.Equal(t, "Medium", domain.EngagementLevelFor(79))
	assert.Equal(t, "High", domain.EngagementLevelFor(80))
	assert.Equal(t, "High", domain.EngagementLevelFor(100))
}
