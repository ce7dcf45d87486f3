package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/property"
)

// MockPropertyFetcher is a mock implementation of property.Fetcher
type MockPropertyFetcher struct {
	mock.Mock
}

func (m *MockPropertyFetcher) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func offerAt(propertyID string, amount float64, status string, age time.Duration) domain.OfferRecord {
	return domain.OfferRecord{
		PropertyID: propertyID,
		Amount:     amount,
		Status:     status,
		Timestamp:  time.Now().UTC().Add(-age),
	}
}

func TestTransactionBuilder_Build_ProfitAndMargin(t *testing.T) {
	mockProperties := new(MockPropertyFetcher)
	builder := NewTransactionBuilder(mockProperties, zap.NewNop())

	mockProperties.On("GetProperty", mock.Anything, "prop-1").Return(&property.Property{
		ID:            "prop-1",
		AskingPrice:   100000,
		MinPrice:      60000,
		PurchasePrice: 50000,
	}, nil)

	report := builder.Build(context.Background(), []domain.OfferRecord{
		offerAt("prop-1", 75000, "accepted", 10*24*time.Hour),
	})

	assert.Len(t, report.Transactions, 1)
	assert.Equal(t, float64(25000), report.Transactions[0].Profit)
	assert.Equal(t, float64(50), report.Transactions[0].ProfitMargin)
	assert.Equal(t, float64(25000), report.TotalProfit)
	assert.Equal(t, 1, report.TotalOffers)
	mockProperties.AssertExpectations(t)
}

func TestTransactionBuilder_Build_ZeroPurchasePriceZeroProfit(t *testing.T) {
	mockProperties := new(MockPropertyFetcher)
	builder := NewTransactionBuilder(mockProperties, zap.NewNop())

	mockProperties.On("GetProperty", mock.Anything, "prop-1").Return(&property.Property{
		ID: "prop-1",
	}, nil)

	report := builder.Build(context.Background(), []domain.OfferRecord{
		offerAt("prop-1", 75000, "accepted", 10*24*time.Hour),
	})

	assert.Equal(t, float64(0), report.Transactions[0].Profit)
	assert.Equal(t, float64(0), report.Transactions[0].ProfitMargin)
}

func TestTransactionBuilder_Build_LookupFailureUsesPlaceholder(t *testing.T) {
	mockProperties := new(MockPropertyFetcher)
	builder := NewTransactionBuilder(mockProperties, zap.NewNop())

	mockProperties.On("GetProperty", mock.Anything, "prop-1").Return(nil, errors.New("connection refused"))

	report := builder.Build(context.Background(), []domain.OfferRecord{
		offerAt("prop-1", 75000, "", 10*24*time.Hour),
	})

	assert.Len(t, report.Transactions, 1)
	assert.Equal(t, float64(0), report.Transactions[0].Profit)
	assert.Equal(t, domain.StatusUnknown, report.Transactions[0].Status)
}

func TestTransactionBuilder_Build_SortedNewestFirst(t *testing.T) {
	mockProperties := new(MockPropertyFetcher)
	builder := NewTransactionBuilder(mockProperties, zap.NewNop())

	mockProperties.On("GetProperty", mock.Anything, mock.Anything).Return(&property.Property{}, nil)

	report := builder.Build(context.Background(), []domain.OfferRecord{
		offerAt("prop-old", 50000, "accepted", 20*24*time.Hour),
		offerAt("prop-new", 60000, "rejected", 5*24*time.Hour),
	})

	assert.Equal(t, "prop-new", report.Transactions[0].PropertyID)
	assert.Equal(t, "prop-old", report.Transactions[1].PropertyID)
}

func TestTransactionBuilder_Build_SuccessRate(t *testing.T) {
	mockProperties := new(MockPropertyFetcher)
	builder := NewTransactionBuilder(mockProperties, zap.NewNop())

	mockProperties.On("GetProperty", mock.Anything, mock.Anything).Return(&property.Property{}, nil)

	report := builder.Build(context.Background(), []domain.OfferRecord{
		offerAt("prop-1", 50000, "accepted", 20*24*time.Hour),
		offerAt("prop-2", 60000, "closed", 15*24*time.Hour),
		offerAt("prop-3", 40000, "rejected", 10*24*time.Hour),
		offerAt("prop-4", 45000, "countered", 5*24*time.Hour),
	})

	assert.Equal(t, float64(50), report.SuccessRate)
}

func TestTransactionBuilder_Build_EmptyOffers(t *testing.T) {
	mockProperties := new(MockPropertyFetcher)
	builder := NewTransactionBuilder(mockProperties, zap.NewNop())

	report := builder.Build(context.Background(), nil)

	assert.Empty(t, report.Transactions)
	assert.Equal(t, 0, report.TotalOffers)
	assert.Equal(t, float64(0), report.SuccessRate)
}

func TestInferStatus_AuthoritativeStatusWins(t *testing.T) {
	prop := &property.Property{AskingPrice: 100000, MinPrice: 60000}

	offer := offerAt("prop-1", 999, "Countered", time.Hour)

	assert.Equal(t, domain.StatusCountered, inferStatus(offer, prop, time.Now().UTC()))
}

func TestInferStatus_RecentOfferPending(t *testing.T) {
	prop := &property.Property{AskingPrice: 100000, MinPrice: 60000}

	offer := offerAt("prop-1", 120000, "Pending", 24*time.Hour)

	assert.Equal(t, domain.StatusPending, inferStatus(offer, prop, time.Now().UTC()))
}

func TestInferStatus_AtOrAboveAskingAccepted(t *testing.T) {
	prop := &property.Property{AskingPrice: 100000, MinPrice: 60000}

	offer := offerAt("prop-1", 100000, "", 10*24*time.Hour)

	assert.Equal(t, domain.StatusAccepted, inferStatus(offer, prop, time.Now().UTC()))
}

func TestInferStatus_BelowMinimumRejected(t *testing.T) {
	prop := &property.Property{AskingPrice: 100000, MinPrice: 60000}

	offer := offerAt("prop-1", 50000, "", 10*24*time.Hour)

	assert.Equal(t, domain.StatusRejected, inferStatus(offer, prop, time.Now().UTC()))
}

func TestInferStatus_MidRangeOfferUnknown(t *testing.T) {
	prop := &property.Property{AskingPrice: 100000, MinPrice: 60000}

	offer := offerAt("prop-1", 80000, "", 10*24*time.Hour)

	assert.Equal(t, domain.StatusUnknown, inferStatus(offer, prop, time.Now().UTC()))
}

func TestInferStatus_MissingPricingUnknown(t *testing.T) {
	prop := property.Placeholder("prop-1")

	offer := offerAt("prop-1", 80000, "", 10*24*time.Hour)

	assert.Equal(t, domain.StatusUnknown, inferStatus(offer, prop, time.Now().UTC()))
}
