package service

import (
	"context"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/summary"
)

// ActivityServicer defines the interface for activity pipeline operations
type ActivityServicer interface {
	Record(ctx context.Context, events []dto.ActivityEventPayload, clientIP string) *dto.RecordActivityResponse
	GetActivity(ctx context.Context, buyerID string, query dto.GetActivityQuery) (*dto.ActivityListResponse, error)
	GetSummary(ctx context.Context, buyerID string) (*domain.ActivitySummary, error)
	GetTransactions(ctx context.Context, buyerID string) (*summary.TransactionReport, error)
	Delete(ctx context.Context, buyerID string, query dto.DeleteActivityQuery) (int64, error)
}
