package domain

import "time"

// Event types emitted by the client-side tracker. The first group maps onto
// summary categories; the rest are fine-grained signals that are stored and
// queryable but excluded from category buckets.
const (
	TypePropertyView     = "property_view"
	TypeClick            = "click"
	TypePageView         = "page_view"
	TypeSearch           = "search"
	TypeSearchQuery      = "search_query"
	TypeOfferSubmission  = "offer_submission"
	TypeEmailInteraction = "email_interaction"
	TypeSessionStart     = "session_start"
	TypeSessionEnd       = "session_end"

	TypePropertyDetailsView  = "property_details_view"
	TypePropertyExit         = "property_exit"
	TypeOfferFormView        = "offer_form_view"
	TypeOfferFormInteraction = "offer_form_interaction"
	TypeSearchTyping         = "search_typing"
)

// Category identifies one of the seven summary buckets.
type Category string

const (
	CategoryPropertyViews     Category = "propertyViews"
	CategoryClickEvents       Category = "clickEvents"
	CategoryPageVisits        Category = "pageVisits"
	CategorySearchHistory     Category = "searchHistory"
	CategoryOfferHistory      Category = "offerHistory"
	CategoryEmailInteractions Category = "emailInteractions"
	CategorySessionHistory    Category = "sessionHistory"
)

// categoryByType is the fixed type-to-bucket lookup. Both session_start and
// session_end land in sessionHistory; search_query shares the search bucket.
var categoryByType = map[string]Category{
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

// CategoryFor returns the summary bucket for an event type. Unrecognized
// types return ok=false and are excluded from summaries.
func CategoryFor(eventType string) (Category, bool) {
	c, ok := categoryByType[eventType]
	return c, ok
}

// ActivityEvent is one observed buyer action. Events are immutable once
// stored; the store is an append-only log keyed by buyer.
type ActivityEvent struct {
	ID         string                 `json:"id"`
	BuyerID    string                 `json:"buyerId"`
	Type       string                 `json:"type"`
	Timestamp  time.Time              `json:"timestamp"`
	PropertyID string                 `json:"propertyId,omitempty"`
	EventData  map[string]interface{} `json:"eventData,omitempty"`

	// Legacy holds fields that older clients placed at the record's top level
	// instead of inside eventData. The normalizer checks eventData first,
	// then Legacy, then applies the documented default.
	Legacy map[string]interface{} `json:"legacy,omitempty"`
}
