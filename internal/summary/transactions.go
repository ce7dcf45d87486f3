package summary

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/property"
)

// pendingWindow is how long a fresh offer stays "pending" before status
// inference kicks in.
const pendingWindow = 3 * 24 * time.Hour

// TransactionReport is the dashboard view over a buyer's offers joined with
// property pricing. Derived on every request, never stored.
type TransactionReport struct {
	Transactions []domain.Transaction `json:"transactions"`
	TotalOffers  int                  `json:"totalOffers"`
	TotalProfit  float64              `json:"totalProfit"`
	SuccessRate  float64              `json:"successRate"`
}

// TransactionBuilder joins offer records with their property's purchase
// price to compute profit and margin.
type TransactionBuilder struct {
	properties property.Fetcher
	log        *zap.Logger
}

func NewTransactionBuilder(properties property.Fetcher, log *zap.Logger) *TransactionBuilder {
	return &TransactionBuilder{
		properties: properties,
		log:        log,
	}
}

// Build computes the transaction report for a set of offers. A failed
// property lookup downgrades that transaction to placeholder pricing rather
// than failing the report.
func (b *TransactionBuilder) Build(ctx context.Context, offers []domain.OfferRecord) *TransactionReport {
	now := time.Now().UTC()
	transactions := make([]domain.Transaction, 0, len(offers))

	for _, offer := range offers {
		prop, err := b.properties.GetProperty(ctx, offer.PropertyID)
		if err != nil {
			b.log.Warn("Property lookup failed, using placeholder",
				zap.String("property_id", offer.PropertyID),
				zap.Error(err))
			prop = property.Placeholder(offer.PropertyID)
		}

		profit := 0.0
		margin := 0.0
		if prop.PurchasePrice > 0 {
			profit = offer.Amount - prop.PurchasePrice
			margin = (profit / prop.PurchasePrice) * 100
		}

		transactions = append(transactions, domain.Transaction{
			PropertyID:   offer.PropertyID,
			Date:         offer.Timestamp,
			Amount:       offer.Amount,
			Profit:       profit,
			ProfitMargin: margin,
			Status:       inferStatus(offer, prop, now),
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	report := &TransactionReport{
		Transactions: transactions,
		TotalOffers:  len(transactions),
	}

	succeeded := 0
	for _, t := range transactions {
		report.TotalProfit += t.Profit
		if t.Status == domain.StatusAccepted || t.Status == domain.StatusClosed {
			succeeded++
		}
	}
	if len(transactions) > 0 {
		report.SuccessRate = float64(succeeded) / float64(len(transactions)) * 100
	}

	return report
}

// inferStatus determines a transaction's status. An authoritative status on
// the offer wins; otherwise recent offers are pending, at-or-above-asking
// offers are accepted, below-minimum offers are rejected, and everything
// else is unknown. The legacy behavior of randomly assigning a status to
// older mid-range offers is deliberately not reproduced.
func inferStatus(offer domain.OfferRecord, prop *property.Property, now time.Time) string {
	if offer.Status != "" && !strings.EqualFold(offer.Status, domain.StatusPending) {
		return strings.ToLower(offer.Status)
	}

	if now.Sub(offer.Timestamp) < pendingWindow {
		return domain.StatusPending
	}
	if prop.AskingPrice > 0 && offer.Amount >= prop.AskingPrice {
		return domain.StatusAccepted
	}
	if prop.MinPrice > 0 && offer.Amount < prop.MinPrice {
		return domain.StatusRejected
	}

	return domain.StatusUnknown
}
