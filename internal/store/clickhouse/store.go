package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/store"
)

// Store implements store.ActivityStore on ClickHouse
type Store struct {
	client *Client
	log    *zap.Logger
}

// NewStore creates a new ClickHouse activity store
func NewStore(client *Client, log *zap.Logger) *Store {
	return &Store{
		client: client,
		log:    log,
	}
}

// InitSchema creates the buyer_activity table if it does not exist. The log
// is append-only: rows are never rewritten, only bulk-deleted by mutation.
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS buyer_activity (
		event_id String,
		buyer_id String,
		event_type LowCardinality(String),
		timestamp DateTime64(3),
		property_id String,
		event_data String,
		legacy_data String
	) ENGINE = MergeTree()
	ORDER BY (buyer_id, timestamp)
	PARTITION BY toYYYYMM(timestamp)
	SETTINGS index_granularity = 8192
	`

	if err := s.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create buyer_activity table: %w", err)
	}

	s.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// Append stores one event and returns its assigned ID.
func (s *Store) Append(ctx context.Context, event *domain.ActivityEvent) (string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	eventData, err := marshalMap(event.EventData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event data: %w", err)
	}
	legacyData, err := marshalMap(event.Legacy)
	if err != nil {
		return "", fmt.Errorf("failed to marshal legacy data: %w", err)
	}

	batch, err := s.client.Conn().PrepareBatch(ctx, "INSERT INTO buyer_activity")
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}

	err = batch.Append(
		event.ID,
		event.BuyerID,
		event.Type,
		event.Timestamp,
		event.PropertyID,
		eventData,
		legacyData,
	)
	if err != nil {
		return "", fmt.Errorf("failed to append event: %w", err)
	}

	if err := batch.Send(); err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	return event.ID, nil
}

// Query returns a page of a buyer's events in descending timestamp order.
func (s *Store) Query(ctx context.Context, buyerID string, filter store.Filter) (*store.QueryResult, error) {
	filter = filter.Normalize()

	where, args := buildWhere(buyerID, filter)

	countQuery := fmt.Sprintf("SELECT count() FROM buyer_activity %s", where)
	var total uint64
	if err := s.client.Conn().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	pageQuery := fmt.Sprintf(`
		SELECT event_id, buyer_id, event_type, timestamp, property_id, event_data, legacy_data
		FROM buyer_activity
		%s
		ORDER BY timestamp DESC
		LIMIT %d OFFSET %d
	`, where, filter.Limit, offset)

	rows, err := s.client.Conn().Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			s.log.Error("Failed to close activity rows", zap.Error(err))
		}
	}(rows)

	activities := make([]*domain.ActivityEvent, 0, filter.Limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return &store.QueryResult{
		Activities: activities,
		TotalCount: int64(total),
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// DeleteWhere removes all of a buyer's events matching the filter. The count
// is taken before the mutation; a concurrent append between the two
// statements is acceptable under the store's eventually-consistent contract.
func (s *Store) DeleteWhere(ctx context.Context, buyerID string, filter store.DeleteFilter) (int64, error) {
	conditions := []string{"buyer_id = ?"}
	args := []interface{}{buyerID}

	if filter.Type != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, filter.Type)
	}
	if !filter.Before.IsZero() {
		conditions = append(conditions, "timestamp < ?")
		args = append(args, filter.Before)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total uint64
	countQuery := fmt.Sprintf("SELECT count() FROM buyer_activity %s", where)
	if err := s.client.Conn().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count activity for delete: %w", err)
	}

	deleteQuery := fmt.Sprintf("DELETE FROM buyer_activity %s", where)
	if err := s.client.Conn().Exec(ctx, deleteQuery, args...); err != nil {
		return 0, fmt.Errorf("failed to delete activity: %w", err)
	}

	s.log.Info("Deleted buyer activity",
		zap.String("buyer_id", buyerID),
		zap.String("type", filter.Type),
		zap.Int64("deleted_count", int64(total)))

	return int64(total), nil
}

// Ping checks if the ClickHouse connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (s *Store) Close() error {
	return s.client.Close()
}

func buildWhere(buyerID string, filter store.Filter) (string, []interface{}) {
	conditions := []string{"buyer_id = ?"}
	args := []interface{}{buyerID}

	if filter.Type != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, filter.Type)
	}
	if filter.PropertyID != "" {
		conditions = append(conditions, "property_id = ?")
		args = append(args, filter.PropertyID)
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndDate)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanEvent(rows driver.Rows) (*domain.ActivityEvent, error) {
	var (
		event      domain.ActivityEvent
		eventData  string
		legacyData string
	)

	if err := rows.Scan(
		&event.ID,
		&event.BuyerID,
		&event.Type,
		&event.Timestamp,
		&event.PropertyID,
		&eventData,
		&legacyData,
	); err != nil {
		return nil, fmt.Errorf("failed to scan activity row: %w", err)
	}

	event.EventData = unmarshalMap(eventData)
	event.Legacy = unmarshalMap(legacyData)

	return &event, nil
}

func marshalMap(m map[string]interface{}) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalMap(s string) map[string]interface{} {
	if s == "" || s == "{}" {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
