package dto

import (
	"encoding/json"
	"time"
)

// knownEventKeys are the fields of the event wire shape. Anything else at the
// top level is a legacy field location and is preserved for the normalizer.
var knownEventKeys = map[string]struct{}{
	"type":       {},
	"buyerId":    {},
	"timestamp":  {},
	"propertyId": {},
	"eventData":  {},
}

// ActivityEventPayload is one event descriptor in an ingestion batch.
// Older clients put type-specific fields (page, device, ipAddress, ...) at
// the top level instead of inside eventData; UnmarshalJSON captures those
// into Legacy so nothing is silently dropped.
type ActivityEventPayload struct {
	Type       string                 `json:"type"`
	BuyerID    string                 `json:"buyerId"`
	Timestamp  string                 `json:"timestamp,omitempty"`
	PropertyID string                 `json:"propertyId,omitempty"`
	EventData  map[string]interface{} `json:"eventData,omitempty"`
	Legacy     map[string]interface{} `json:"-"`
}

func (p *ActivityEventPayload) UnmarshalJSON(data []byte) error {
	type alias ActivityEventPayload
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range knownEventKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		known.Legacy = raw
	}

	*p = ActivityEventPayload(known)
	return nil
}

// ParsedTimestamp returns the event time, or ok=false when the timestamp is
// absent or not a valid instant (the caller defaults to ingestion time).
func (p *ActivityEventPayload) ParsedTimestamp() (time.Time, bool) {
	if p.Timestamp == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// RecordActivityRequest is the POST /activity body.
type RecordActivityRequest struct {
	Events []ActivityEventPayload `json:"events" binding:"required,min=1,max=1000"`
}

// GetActivityQuery holds the GET /activity/:buyerId query parameters.
type GetActivityQuery struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=500"`
	Type       string `form:"type"`
	PropertyID string `form:"propertyId"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
}

// DeleteActivityQuery holds the DELETE /activity/:buyerId query parameters.
type DeleteActivityQuery struct {
	Type   string `form:"type"`
	Before string `form:"before"`
}
