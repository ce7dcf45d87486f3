package store

import (
	"context"
	"time"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
)

// DefaultLimit is deliberately high: the aggregator needs a near-complete
// event set, and a summary computed from a truncated page undercounts
// engagement.
const (
	DefaultLimit = 500
	MaxLimit     = 500
)

// Filter narrows an activity query. Zero values mean "no constraint".
type Filter struct {
	Type       string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	Page       int
	Limit      int
}

// Normalize clamps pagination to sane bounds. Pages are 1-indexed.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// DeleteFilter narrows a bulk delete. Type and Before are both optional;
// per-event deletion is not supported.
type DeleteFilter struct {
	Type   string
	Before time.Time
}

// QueryResult is one page of a buyer's activity log, newest first.
type QueryResult struct {
	Activities []*domain.ActivityEvent
	TotalCount int64
	Page       int
	Limit      int
}

// ActivityStore is the append-only event log. Events are never updated in
// place; deletion is bulk-only.
type ActivityStore interface {
	// Append stores one event and returns its assigned ID.
	Append(ctx context.Context, event *domain.ActivityEvent) (string, error)

	// Query returns a page of a buyer's events in descending timestamp order.
	// A page beyond the available data returns an empty Activities slice with
	// the correct TotalCount.
	Query(ctx context.Context, buyerID string, filter Filter) (*QueryResult, error)

	// DeleteWhere removes all of a buyer's events matching the filter and
	// returns the number removed.
	DeleteWhere(ctx context.Context, buyerID string, filter DeleteFilter) (int64, error)

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
