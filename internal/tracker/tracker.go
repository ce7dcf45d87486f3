// Package tracker is the client-side capture and dispatch library. It
// observes UI lifecycle moments (property page mount/unmount, search edits,
// offer form interactions), buffers the resulting events, and ships them to
// the ingestion endpoint in batches. Tracking is fire-and-forget: a send
// failure is logged and dropped, never surfaced to the browsing flow.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
)

const (
	defaultFlushInterval  = 5 * time.Second
	defaultMaxBatchSize   = 20
	defaultSearchDebounce = 800 * time.Millisecond
	defaultBufferSize     = 256
)

// Session is the explicit auth context the tracker operates under. Every
// Track method is a no-op unless the session belongs to a recognized VIP
// buyer; the capability check precedes any event construction.
type Session struct {
	BuyerID string
	IsVIP   bool
	Token   string
}

// Config tunes dispatch behavior. Zero values take the defaults above.
type Config struct {
	Endpoint       string
	FlushInterval  time.Duration
	MaxBatchSize   int
	SearchDebounce time.Duration
	BufferSize     int
}

func (c Config) withDefaults() Config {
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaultFlushInterval
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = defaultMaxBatchSize
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = defaultSearchDebounce
	}
	if c.BufferSize <= 0 {
		c.BufferSize = defaultBufferSize
	}
	return c
}

// PropertyData is the property context attached to view/offer events so the
// normalizer rarely has to fall back to defaults.
type PropertyData struct {
	ID            string
	Title         string
	StreetAddress string
	City          string
	State         string
	Area          string
	AskingPrice   float64
	Status        string
}

// OfferData describes a submitted offer.
type OfferData struct {
	PropertyID string
	Amount     float64
	Status     string
}

// Tracker buffers activity events for one buyer session and dispatches them
// in batches to the ingestion endpoint.
type Tracker struct {
	session Session
	config  Config
	client  *http.Client
	log     *zap.Logger

	events chan dto.ActivityEventPayload
	done   chan struct{}

	mu            sync.Mutex
	searchTimer   *time.Timer
	pendingSearch *dto.ActivityEventPayload
	trackedForms  map[string]bool
	closed        bool
}

// New creates a tracker and starts its dispatch loop. Callers must Close it
// to flush outstanding events.
func New(session Session, config Config, log *zap.Logger) *Tracker {
	config = config.withDefaults()

	t := &Tracker{
		session:      session,
		config:       config,
		client:       &http.Client{Timeout: 10 * time.Second},
		log:          log,
		events:       make(chan dto.ActivityEventPayload, config.BufferSize),
		done:         make(chan struct{}),
		trackedForms: make(map[string]bool),
	}

	go t.dispatch()

	return t
}

// TrackEvent records a generic event with an arbitrary payload.
func (t *Tracker) TrackEvent(eventType string, data map[string]interface{}) {
	if !t.session.IsVIP {
		return
	}
	t.enqueue(eventType, "", data)
}

// TrackPropertyView records a property page mount, with the detailed
// property context captured alongside.
func (t *Tracker) TrackPropertyView(prop PropertyData) {
	if !t.session.IsVIP {
		return
	}

	t.enqueue(domain.TypePropertyView, prop.ID, map[string]interface{}{
		"propertyId":      prop.ID,
		"propertyTitle":   prop.Title,
		"propertyAddress": joinAddress(prop),
	})
	t.enqueue(domain.TypePropertyDetailsView, prop.ID, map[string]interface{}{
		"propertyId":    prop.ID,
		"propertyTitle": prop.Title,
		"area":          prop.Area,
		"askingPrice":   prop.AskingPrice,
		"status":        prop.Status,
	})
}

// TrackPropertyExit records leaving a property page.
func (t *Tracker) TrackPropertyExit(propertyID string) {
	if !t.session.IsVIP {
		return
	}
	t.enqueue(domain.TypePropertyExit, propertyID, map[string]interface{}{
		"propertyId": propertyID,
		"exitTime":   time.Now().UTC().Format(time.RFC3339),
	})
}

// TrackSearch records a search query. Rapid successive edits collapse into a
// single event emitted after a quiet period, so typing does not flood the
// ingestion endpoint.
func (t *Tracker) TrackSearch(query string, resultsCount int, filters map[string]interface{}) {
	if !t.session.IsVIP {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.pendingSearch = &dto.ActivityEventPayload{
		Type:      domain.TypeSearch,
		BuyerID:   t.session.BuyerID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		EventData: map[string]interface{}{
			"query":        query,
			"resultsCount": resultsCount,
			"filters":      filters,
		},
	}

	if t.searchTimer != nil {
		t.searchTimer.Stop()
	}
	t.searchTimer = time.AfterFunc(t.config.SearchDebounce, t.flushSearch)
}

// TrackOfferSubmission records a submitted offer.
func (t *Tracker) TrackOfferSubmission(offer OfferData) {
	if !t.session.IsVIP {
		return
	}
	t.enqueue(domain.TypeOfferSubmission, offer.PropertyID, map[string]interface{}{
		"propertyId": offer.PropertyID,
		"amount":     offer.Amount,
		"status":     offer.Status,
	})
}

// TrackOfferFormView records the offer form being shown for a property.
func (t *Tracker) TrackOfferFormView(prop PropertyData) {
	if !t.session.IsVIP {
		return
	}
	t.enqueue(domain.TypeOfferFormView, prop.ID, map[string]interface{}{
		"propertyId":    prop.ID,
		"propertyTitle": prop.Title,
		"askingPrice":   prop.AskingPrice,
	})
}

// TrackFormInteraction records the first interaction with a form. At most
// one event fires per form per mount; ResetForm re-arms it.
func (t *Tracker) TrackFormInteraction(formID, propertyID string) {
	if !t.session.IsVIP {
		return
	}

	t.mu.Lock()
	if t.trackedForms[formID] {
		t.mu.Unlock()
		return
	}
	t.trackedForms[formID] = true
	t.mu.Unlock()

	t.enqueue(domain.TypeOfferFormInteraction, propertyID, map[string]interface{}{
		"propertyId": propertyID,
		"formId":     formID,
	})
}

// ResetForm clears the first-interaction flag for a form, e.g. on remount.
func (t *Tracker) ResetForm(formID string) {
	t.mu.Lock()
	delete(t.trackedForms, formID)
	t.mu.Unlock()
}

// TrackClick records a click on a page element.
func (t *Tracker) TrackClick(element, page string) {
	if !t.session.IsVIP {
		return
	}
	t.enqueue(domain.TypeClick, "", map[string]interface{}{
		"element": element,
		"page":    page,
	})
}

// TrackPageView records a page visit.
func (t *Tracker) TrackPageView(path string, duration int) {
	if !t.session.IsVIP {
		return
	}
	t.enqueue(domain.TypePageView, "", map[string]interface{}{
		"path":     path,
		"duration": duration,
	})
}

// Close flushes any pending search and buffered events, then stops the
// dispatch loop. The closed flag and the channel close happen under the same
// mutex every send takes, so no Track call can race a send onto the closed
// channel.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.searchTimer != nil {
		t.searchTimer.Stop()
	}
	if t.pendingSearch != nil {
		select {
		case t.events <- *t.pendingSearch:
		default:
			t.log.Warn("Tracker buffer full, dropping pending search")
		}
		t.pendingSearch = nil
	}
	t.closed = true
	close(t.events)
	t.mu.Unlock()

	<-t.done
}

// flushSearch emits the debounced search event after the quiet period.
func (t *Tracker) flushSearch() {
	t.mu.Lock()
	pending := t.pendingSearch
	t.pendingSearch = nil
	closed := t.closed
	t.mu.Unlock()

	if pending == nil || closed {
		return
	}
	t.send(*pending)
}

func (t *Tracker) enqueue(eventType, propertyID string, data map[string]interface{}) {
	t.send(dto.ActivityEventPayload{
		Type:       eventType,
		BuyerID:    t.session.BuyerID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		PropertyID: propertyID,
		EventData:  data,
	})
}

// send hands an event to the dispatch loop without blocking. When the buffer
// is full the event is dropped; losing an analytics event is preferable to
// stalling the caller. The channel send happens under the mutex so it can
// never race Close's channel close.
func (t *Tracker) send(event dto.ActivityEventPayload) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	select {
	case t.events <- event:
	default:
		t.log.Warn("Tracker buffer full, dropping event",
			zap.String("type", event.Type))
	}
}

// dispatch batches buffered events and posts them, flushing on size or
// interval, with a final flush on Close.
func (t *Tracker) dispatch() {
	defer close(t.done)

	ticker := time.NewTicker(t.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]dto.ActivityEventPayload, 0, t.config.MaxBatchSize)

	for {
		select {
		case event, ok := <-t.events:
			if !ok {
				if len(batch) > 0 {
					t.post(batch)
				}
				return
			}

			batch = append(batch, event)
			if len(batch) >= t.config.MaxBatchSize {
				t.post(batch)
				batch = make([]dto.ActivityEventPayload, 0, t.config.MaxBatchSize)
				ticker.Reset(t.config.FlushInterval)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				t.post(batch)
				batch = make([]dto.ActivityEventPayload, 0, t.config.MaxBatchSize)
			}
		}
	}
}

// post ships one batch to the ingestion endpoint. Failures are logged and
// the batch is dropped.
func (t *Tracker) post(batch []dto.ActivityEventPayload) {
	body, err := json.Marshal(dto.RecordActivityRequest{Events: batch})
	if err != nil {
		t.log.Error("Failed to marshal activity batch", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		t.log.Error("Failed to build activity request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.session.Token)

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Warn("Activity dispatch failed",
			zap.Error(err),
			zap.Int("batch_size", len(batch)))
		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.log.Error("Failed to close dispatch response body", zap.Error(err))
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		t.log.Warn("Activity dispatch rejected",
			zap.Int("status", resp.StatusCode),
			zap.Int("batch_size", len(batch)))
	}
}

func joinAddress(prop PropertyData) string {
	if prop.StreetAddress == "" {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s", prop.StreetAddress, prop.City, prop.State)
}
