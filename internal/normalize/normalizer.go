package normalize

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
)

// Documented defaults for missing or malformed fields.
const (
	DefaultPropertyTitle   = "Unknown Property"
	DefaultPropertyAddress = "Address not available"
	DefaultViewDetails     = "Viewed property details"
	DefaultDuration        = 60
	DefaultElement         = "Unknown element"
	DefaultPage            = "Unknown page"
	DefaultQuery           = "Unknown search"
	DefaultSearchType      = "standard"
	DefaultOfferStatus     = "Pending"
	DefaultEmailSubject    = "Email from Landivo"
	DefaultDevice          = "Unknown device"
	DefaultIPAddress       = "Unknown"
)

// Normalizer converts raw stored events into the canonical shape for their
// category, tolerating absent and misplaced fields.
type Normalizer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize returns the canonical representation of an event along with its
// category. Events whose type has no category return ok=false; they stay
// stored and queryable but never enter a summary bucket.
func (n *Normalizer) Normalize(e *domain.ActivityEvent) (domain.Category, interface{}, bool) {
	category, ok := domain.CategoryFor(e.Type)
	if !ok {
		return "", nil, false
	}

	switch category {
	case domain.CategoryPropertyViews:
		return category, n.PropertyView(e), true
	case domain.CategoryClickEvents:
		return category, n.Click(e), true
	case domain.CategoryPageVisits:
		return category, n.PageVisit(e), true
	case domain.CategorySearchHistory:
		return category, n.Search(e), true
	case domain.CategoryOfferHistory:
		return category, n.Offer(e), true
	case domain.CategoryEmailInteractions:
		return category, n.Email(e), true
	case domain.CategorySessionHistory:
		return category, n.Session(e), true
	default:
		return "", nil, false
	}
}

// PropertyView normalizes a property_view event.
func (n *Normalizer) PropertyView(e *domain.ActivityEvent) domain.PropertyView {
	propertyID := stringField(e, e.PropertyID, "propertyId")

	return domain.PropertyView{
		PropertyID:      propertyID,
		PropertyTitle:   stringField(e, DefaultPropertyTitle, "propertyTitle"),
		PropertyAddress: stringField(e, DefaultPropertyAddress, "propertyAddress"),
		Timestamp:       eventTime(e),
		Duration:        intField(e, DefaultDuration, "duration"),
		Details:         stringField(e, DefaultViewDetails, "details"),
	}
}

// Click normalizes a click event.
func (n *Normalizer) Click(e *domain.ActivityEvent) domain.ClickEvent {
	return domain.ClickEvent{
		Element:   stringField(e, DefaultElement, "elementType", "element"),
		Page:      stringField(e, DefaultPage, "path", "page"),
		Timestamp: eventTime(e),
	}
}

// PageVisit normalizes a page_view event.
func (n *Normalizer) PageVisit(e *domain.ActivityEvent) domain.PageVisit {
	return domain.PageVisit{
		URL:       stringField(e, DefaultPage, "path", "url", "page"),
		Timestamp: eventTime(e),
		Duration:  intField(e, DefaultDuration, "duration"),
	}
}

// Search normalizes a search or search_query event.
func (n *Normalizer) Search(e *domain.ActivityEvent) domain.SearchRecord {
	return domain.SearchRecord{
		Query:      stringField(e, DefaultQuery, "query"),
		Timestamp:  eventTime(e),
		Results:    intField(e, 0, "resultsCount", "results"),
		SearchType: stringField(e, DefaultSearchType, "searchType"),
		Context:    stringField(e, "", "context"),
		Area:       stringField(e, "", "area"),
		Filters:    mapField(e, "filters"),
	}
}

// Offer normalizes an offer_submission event. The address joins street, city
// and state when a structured address is present.
func (n *Normalizer) Offer(e *domain.ActivityEvent) domain.OfferRecord {
	address := stringField(e, "", "propertyAddress")
	if address == "" {
		if street := stringField(e, "", "streetAddress"); street != "" {
			address = fmt.Sprintf("%s, %s, %s",
				street,
				stringField(e, "", "city"),
				stringField(e, "", "state"))
		}
	}
	if address == "" {
		address = DefaultPropertyAddress
	}

	return domain.OfferRecord{
		PropertyID:      stringField(e, e.PropertyID, "propertyId"),
		PropertyTitle:   stringField(e, DefaultPropertyTitle, "propertyTitle", "title"),
		PropertyAddress: address,
		Amount:          floatField(e, 0, "amount", "offeredPrice"),
		Status:          stringField(e, DefaultOfferStatus, "status"),
		Timestamp:       eventTime(e),
	}
}

// Email normalizes an email_interaction event. An absent opened flag counts
// as opened, preserving the permissive historical behavior; the warning makes
// the inflation visible in logs.
func (n *Normalizer) Email(e *domain.ActivityEvent) domain.EmailInteraction {
	opened, present := boolField(e, true, "opened")
	if !present {
		n.log.Warn("Email interaction missing opened flag, defaulting to opened",
			zap.String("event_id", e.ID),
			zap.String("buyer_id", e.BuyerID))
	}

	emailID := stringField(e, "", "emailId")
	if emailID == "" {
		emailID = fmt.Sprintf("email-%d", eventTime(e).UnixMilli())
	}

	clicks := make([]domain.EmailClick, 0)
	for _, item := range listField(e, "clicks") {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		click := domain.EmailClick{}
		if url, ok := entry["url"].(string); ok {
			click.URL = url
		}
		if ts, ok := parseInstant(entry["timestamp"]); ok {
			click.Timestamp = ts
		}
		clicks = append(clicks, click)
	}

	return domain.EmailInteraction{
		EmailID:       emailID,
		Subject:       stringField(e, DefaultEmailSubject, "subject"),
		Opened:        opened,
		OpenTimestamp: eventTime(e),
		Clicks:        clicks,
	}
}

// Session normalizes a session_start/session_end event. An invalid login
// time falls back to the current time; an invalid logout time stays absent,
// never fabricated.
func (n *Normalizer) Session(e *domain.ActivityEvent) domain.SessionRecord {
	loginTime, ok := timeField(e, "loginTime")
	if !ok {
		loginTime = eventTime(e)
	}

	var logoutTime *time.Time
	if ts, ok := timeField(e, "logoutTime"); ok {
		logoutTime = &ts
	}

	device := stringField(e, "", "device")
	if device == "" {
		device = stringField(e, DefaultDevice, "userAgent")
	}

	return domain.SessionRecord{
		LoginTime:  loginTime,
		LogoutTime: logoutTime,
		Device:     device,
		IPAddress:  stringField(e, DefaultIPAddress, "ipAddress"),
	}
}

// JoinAddress builds the display address for a structured property record.
func JoinAddress(street, city, state string) string {
	if street == "" {
		return DefaultPropertyAddress
	}
	return strings.Join([]string{street, city, state}, ", ")
}

// eventTime returns the stored event time, defaulting to now for records
// that somehow predate timestamp assignment at ingestion.
func eventTime(e *domain.ActivityEvent) time.Time {
	if e.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return e.Timestamp
}
