package dto

import "time"

// ErrorResponse represents an error response. Required/Actual are populated
// only on permission denials.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Required []string `json:"required,omitempty"`
	Actual   []string `json:"actual,omitempty"`
}

// RecordActivityResponse reports the outcome of an ingestion batch. A
// malformed event rejects only itself; the rest of the batch proceeds.
type RecordActivityResponse struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// ActivityRecord is one normalized activity item in a GET /activity page.
// Data carries the canonical per-category shape, or the raw eventData when
// the type has no category.
type ActivityRecord struct {
	ID         string      `json:"id"`
	BuyerID    string      `json:"buyerId"`
	Type       string      `json:"type"`
	Category   string      `json:"category,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	PropertyID string      `json:"propertyId,omitempty"`
	Data       interface{} `json:"data"`
}

// ActivityListResponse is one page of a buyer's activity log.
type ActivityListResponse struct {
	Activities []ActivityRecord `json:"activities"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// DeleteActivityResponse reports a bulk delete.
type DeleteActivityResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
