package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFor_KnownTypes(t *testing.T) {
	cases := map[string]Category{
		TypePropertyView:     CategoryPropertyViews,
		TypeClick:            CategoryClickEvents,
		TypePageView:         CategoryPageVisits,
		TypeSearch:           CategorySearchHistory,
		TypeSearchQuery:      CategorySearchHistory,
		TypeOfferSubmission:  CategoryOfferHistory,
		TypeEmailInteraction: CategoryEmailInteractions,
		TypeSessionStart:     CategorySessionHistory,
		TypeSessionEnd:       CategorySessionHistory,
	}

	for eventType, want := range cases {
		category, ok := CategoryFor(eventType)
		assert.True(t, ok, eventType)
		assert.Equal(t, want, category, eventType)
	}
}

func TestCategoryFor_UnknownType(t *testing.T) {
	_, ok := CategoryFor("mystery_event")
	assert.False(t, ok)

	_, ok = CategoryFor("")
	assert.False(t, ok)
}

func TestCategoryFor_FineGrainedTypesUncategorized(t *testing.T) {
	// Detail events are stored and queryable but never enter a summary bucket.
	for _, eventType := range []string{
		TypePropertyDetailsView,
		TypePropertyExit,
		TypeOfferFormView,
		TypeOfferFormInteraction,
		TypeSearchTyping,
	} {
		_, ok := CategoryFor(eventType)
		assert.False(t, ok, eventType)
	}
}
