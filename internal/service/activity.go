package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/buyer"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/normalize"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/store"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/summary"
)

// summaryEventCap bounds how many events feed one summary. High enough for a
// near-complete picture, bounded so a high-volume buyer cannot trigger an
// unbounded scan.
const summaryEventCap = store.MaxLimit

// ActivityService implements the buyer activity pipeline: ingestion into the
// append-only store, filtered retrieval, and on-demand summary aggregation.
type ActivityService struct {
	store        store.ActivityStore
	normalizer   *normalize.Normalizer
	aggregator   *summary.Aggregator
	transactions *summary.TransactionBuilder
	buyers       buyer.Directory
	log          *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityStore store.ActivityStore,
	normalizer *normalize.Normalizer,
	aggregator *summary.Aggregator,
	transactions *summary.TransactionBuilder,
	buyers buyer.Directory,
	log *zap.Logger,
) *ActivityService {
	return &ActivityService{
		store:        activityStore,
		normalizer:   normalizer,
		aggregator:   aggregator,
		transactions: transactions,
		buyers:       buyers,
		log:          log,
	}
}

// Record persists an ingestion batch. Each event succeeds or fails on its
// own: a malformed event is rejected and counted, the rest of the batch
// proceeds. No deduplication happens here; repeated identical events are
// stored distinctly.
func (s *ActivityService) Record(ctx context.Context, events []dto.ActivityEventPayload, clientIP string) *dto.RecordActivityResponse {
	resp := &dto.RecordActivityResponse{}

	for i, payload := range events {
		if payload.Type == "" || payload.BuyerID == "" {
			resp.Rejected++
			resp.Errors = append(resp.Errors,
				fmt.Sprintf("event %d: missing required field (type, buyerId)", i))
			continue
		}

		timestamp, ok := payload.ParsedTimestamp()
		if !ok {
			timestamp = time.Now().UTC()
		}

		event := &domain.ActivityEvent{
			BuyerID:    payload.BuyerID,
			Type:       payload.Type,
			Timestamp:  timestamp,
			PropertyID: payload.PropertyID,
			EventData:  payload.EventData,
			Legacy:     payload.Legacy,
		}

		if payload.Type == domain.TypeSessionStart && clientIP != "" {
			stampIPAddress(event, clientIP)
		}

		if _, err := s.store.Append(ctx, event); err != nil {
			s.log.Error("Failed to append activity event",
				zap.Error(err),
				zap.String("buyer_id", payload.BuyerID),
				zap.String("type", payload.Type))
			resp.Rejected++
			resp.Errors = append(resp.Errors, fmt.Sprintf("event %d: %v", i, err))
			continue
		}

		resp.Accepted++
	}

	s.log.Info("Recorded activity batch",
		zap.Int("accepted", resp.Accepted),
		zap.Int("rejected", resp.Rejected))

	return resp
}

// GetActivity returns one page of a buyer's activity log with each record
// normalized to its canonical category shape.
func (s *ActivityService) GetActivity(ctx context.Context, buyerID string, query dto.GetActivityQuery) (*dto.ActivityListResponse, error) {
	filter := store.Filter{
		Type:       query.Type,
		PropertyID: query.PropertyID,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	if ts, err := time.Parse(time.RFC3339, query.StartDate); err == nil {
		filter.StartDate = ts
	}
	if ts, err := time.Parse(time.RFC3339, query.EndDate); err == nil {
		filter.EndDate = ts
	}

	result, err := s.store.Query(ctx, buyerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}

	records := make([]dto.ActivityRecord, 0, len(result.Activities))
	for _, event := range result.Activities {
		record := dto.ActivityRecord{
			ID:         event.ID,
			BuyerID:    event.BuyerID,
			Type:       event.Type,
			Timestamp:  event.Timestamp,
			PropertyID: event.PropertyID,
		}

		if category, data, ok := s.normalizer.Normalize(event); ok {
			record.Category = string(category)
			record.Data = data
		} else {
			record.Data = event.EventData
		}

		records = append(records, record)
	}

	return &dto.ActivityListResponse{
		Activities: records,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
	}, nil
}

// GetSummary computes the buyer's activity summary from a capped snapshot of
// the event log. Read-only and idempotent; it may miss events appended after
// the snapshot, which is acceptable under the eventually-consistent contract.
func (s *ActivityService) GetSummary(ctx context.Context, buyerID string) (*domain.ActivitySummary, error) {
	result, err := s.store.Query(ctx, buyerID, store.Filter{Limit: summaryEventCap})
	if err != nil {
		return nil, fmt.Errorf("failed to query activity for summary: %w", err)
	}

	return s.aggregator.Build(buyerID, s.buyerName(ctx, buyerID), result.Activities), nil
}

// GetTransactions builds the offer/profit dashboard view for a buyer.
func (s *ActivityService) GetTransactions(ctx context.Context, buyerID string) (*summary.TransactionReport, error) {
	result, err := s.store.Query(ctx, buyerID, store.Filter{
		Type:  domain.TypeOfferSubmission,
		Limit: summaryEventCap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}

	offers := make([]domain.OfferRecord, 0, len(result.Activities))
	for _, event := range result.Activities {
		offers = append(offers, s.normalizer.Offer(event))
	}

	return s.transactions.Build(ctx, offers), nil
}

// Delete bulk-removes a buyer's events, optionally narrowed by type and
// cutoff. Irreversible; the handler gates it behind delete permissions.
func (s *ActivityService) Delete(ctx context.Context, buyerID string, query dto.DeleteActivityQuery) (int64, error) {
	filter := store.DeleteFilter{Type: query.Type}
	if ts, err := time.Parse(time.RFC3339, query.Before); err == nil {
		filter.Before = ts
	}

	deleted, err := s.store.DeleteWhere(ctx, buyerID, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete activity: %w", err)
	}

	return deleted, nil
}

// buyerName resolves the buyer's display name, falling back to the id when
// the directory is unavailable.
func (s *ActivityService) buyerName(ctx context.Context, buyerID string) string {
	if s.buyers == nil {
		return buyerID
	}

	b, err := s.buyers.GetBuyer(ctx, buyerID)
	if err != nil {
		s.log.Warn("Buyer lookup failed, using id as name",
			zap.String("buyer_id", buyerID),
			zap.Error(err))
		return buyerID
	}

	return b.DisplayName()
}

// stampIPAddress records the request's client IP on a session event unless
// the client already reported one.
func stampIPAddress(event *domain.ActivityEvent, clientIP string) {
	if event.EventData == nil {
		event.EventData = map[string]interface{}{}
	}
	if _, ok := event.EventData["ipAddress"]; ok {
		return
	}
	if _, ok := event.Legacy["ipAddress"]; ok {
		return
	}
	event.EventData["ipAddress"] = clientIP
}
