// Package memory provides an in-process ActivityStore used by tests and
// local development. Semantics match the ClickHouse store: append-only,
// descending timestamp order, 1-indexed pagination, bulk-only deletion.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	events map[string][]*domain.ActivityEvent
}

func NewStore() *Store {
	return &Store{
		events: make(map[string][]*domain.ActivityEvent),
	}
}

// Append stores one event and returns its assigned ID.
func (s *Store) Append(ctx context.Context, event *domain.ActivityEvent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *event
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	s.events[stored.BuyerID] = append(s.events[stored.BuyerID], &stored)
	return stored.ID, nil
}

// Query returns a page of a buyer's events in descending timestamp order.
func (s *Store) Query(ctx context.Context, buyerID string, filter store.Filter) (*store.QueryResult, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.ActivityEvent, 0)
	for _, event := range s.events[buyerID] {
		if matches(event, filter) {
			matched = append(matched, event)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	end := start + filter.Limit

	page := make([]*domain.ActivityEvent, 0, filter.Limit)
	if start < len(matched) {
		if end > len(matched) {
			end = len(matched)
		}
		page = append(page, matched[start:end]...)
	}

	return &store.QueryResult{
		Activities: page,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// DeleteWhere removes all of a buyer's events matching the filter.
func (s *Store) DeleteWhere(ctx context.Context, buyerID string, filter store.DeleteFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*domain.ActivityEvent, 0)
	var deleted int64
	for _, event := range s.events[buyerID] {
		if deleteMatches(event, filter) {
			deleted++
			continue
		}
		kept = append(kept, event)
	}
	s.events[buyerID] = kept

	return deleted, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func matches(event *domain.ActivityEvent, filter store.Filter) bool {
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.PropertyID != "" && event.PropertyID != filter.PropertyID {
		return false
	}
	if !filter.StartDate.IsZero() && event.Timestamp.Before(filter.StartDate) {
		return false
	}
	if !filter.EndDate.IsZero() && event.Timestamp.After(filter.EndDate) {
		return false
	}
	return true
}

func deleteMatches(event *domain.ActivityEvent, filter store.DeleteFilter) bool {
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if !filter.Before.IsZero() && !event.Timestamp.Before(filter.Before) {
		return false
	}
	return true
}
