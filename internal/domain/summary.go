package domain

import "time"

// Canonical per-category shapes. These are the default-filled representations
// every downstream consumer works with; the normalize package produces them.

// PropertyView is a normalized property_view event.
type PropertyView struct {
	PropertyID      string    `json:"propertyId"`
	PropertyTitle   string    `json:"propertyTitle"`
	PropertyAddress string    `json:"propertyAddress"`
	Timestamp       time.Time `json:"timestamp"`
	Duration        int       `json:"duration"`
	Details         string    `json:"details"`
}

// ClickEvent is a normalized click event.
type ClickEvent struct {
	Element   string    `json:"element"`
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}

// PageVisit is a normalized page_view event.
type PageVisit struct {
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Duration  int       `json:"duration"`
}

// SearchRecord is a normalized search or search_query event.
type SearchRecord struct {
	Query      string                 `json:"query"`
	Timestamp  time.Time              `json:"timestamp"`
	Results    int                    `json:"results"`
	SearchType string                 `json:"searchType"`
	Context    string                 `json:"context"`
	Area       string                 `json:"area,omitempty"`
	Filters    map[string]interface{} `json:"filters"`
}

// OfferRecord is a normalized offer_submission event.
type OfferRecord struct {
	PropertyID      string    `json:"propertyId"`
	PropertyTitle   string    `json:"propertyTitle"`
	PropertyAddress string    `json:"propertyAddress"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// EmailClick is one link click inside a tracked email.
type EmailClick struct {
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// EmailInteraction is a normalized email_interaction event.
type EmailInteraction struct {
	EmailID       string       `json:"emailId"`
	Subject       string       `json:"subject"`
	Opened        bool         `json:"opened"`
	OpenTimestamp time.Time    `json:"openTimestamp"`
	Clicks        []EmailClick `json:"clicks"`
}

// SessionRecord is a normalized session_start/session_end pair. LogoutTime is
// nil when the session has no valid logout, never fabricated.
type SessionRecord struct {
	LoginTime  time.Time  `json:"loginTime"`
	LogoutTime *time.Time `json:"logoutTime"`
	Device     string     `json:"device"`
	IPAddress  string     `json:"ipAddress"`
}

// ActivitySummary is the derived per-buyer aggregate. It is recomputed from
// the event log on every request and never stored.
type ActivitySummary struct {
	BuyerID           string             `json:"buyerId"`
	BuyerName         string             `json:"buyerName"`
	PropertyViews     []PropertyView     `json:"propertyViews"`
	ClickEvents       []ClickEvent       `json:"clickEvents"`
	PageVisits        []PageVisit        `json:"pageVisits"`
	SearchHistory     []SearchRecord     `json:"searchHistory"`
	OfferHistory      []OfferRecord      `json:"offerHistory"`
	EmailInteractions []EmailInteraction `json:"emailInteractions"`
	SessionHistory    []SessionRecord    `json:"sessionHistory"`
	EngagementScore   int                `json:"engagementScore"`
	EngagementLevel   string             `json:"engagementLevel"`
	LastActive        time.Time          `json:"lastActive"`
}

// EngagementLevelFor bands a 0-100 engagement score.
func EngagementLevelFor(score int) string {
	switch {
	case score >= 80:
		return "High"
	case score >= 50:
		return "Medium"
	default:
		return "Low"
	}
}

// Transaction statuses. StatusUnknown replaces the legacy behavior of picking
// a random status for older mid-range offers; it marks offers whose real
// outcome has not been threaded through yet.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCountered = "countered"
	StatusClosed    = "closed"
	StatusUnknown   = "unknown"
)

// Transaction joins an offer with its property's purchase price for dashboard
// display. View-model only; recomputed on each request.
type Transaction struct {
	PropertyID   string    `json:"propertyId"`
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	Profit       float64   `json:"profit"`
	ProfitMargin float64   `json:"profitMargin"`
	Status       string    `json:"status"`
}
