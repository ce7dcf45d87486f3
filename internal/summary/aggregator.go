package summary

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/normalize"
)

// Engagement score weights. Offers and opened emails represent higher buyer
// intent and count more heavily.
const (
	offerWeight       = 3
	openedEmailWeight = 2
	scoreScale        = 4
)

// Aggregator partitions a buyer's event set into the seven category buckets
// and derives the engagement metrics.
type Aggregator struct {
	normalizer *normalize.Normalizer
	log        *zap.Logger
}

func NewAggregator(normalizer *normalize.Normalizer, log *zap.Logger) *Aggregator {
	return &Aggregator{
		normalizer: normalizer,
		log:        log,
	}
}

// Build computes one ActivitySummary from a buyer's full (size-capped) event
// set. Pure function of its input: no side effects, safe to recompute per
// request. Events with unrecognized types are skipped, not an error.
func (a *Aggregator) Build(buyerID, buyerName string, events []*domain.ActivityEvent) *domain.ActivitySummary {
	s := &domain.ActivitySummary{
		BuyerID:           buyerID,
		BuyerName:         buyerName,
		PropertyViews:     []domain.PropertyView{},
		ClickEvents:       []domain.ClickEvent{},
		PageVisits:        []domain.PageVisit{},
		SearchHistory:     []domain.SearchRecord{},
		OfferHistory:      []domain.OfferRecord{},
		EmailInteractions: []domain.EmailInteraction{},
		SessionHistory:    []domain.SessionRecord{},
	}

	skipped := 0
	for _, event := range events {
		category, ok := domain.CategoryFor(event.Type)
		if !ok {
			skipped++
			continue
		}

		switch category {
		case domain.CategoryPropertyViews:
			s.PropertyViews = append(s.PropertyViews, a.normalizer.PropertyView(event))
		case domain.CategoryClickEvents:
			s.ClickEvents = append(s.ClickEvents, a.normalizer.Click(event))
		case domain.CategoryPageVisits:
			s.PageVisits = append(s.PageVisits, a.normalizer.PageVisit(event))
		case domain.CategorySearchHistory:
			s.SearchHistory = append(s.SearchHistory, a.normalizer.Search(event))
		case domain.CategoryOfferHistory:
			s.OfferHistory = append(s.OfferHistory, a.normalizer.Offer(event))
		case domain.CategoryEmailInteractions:
			s.EmailInteractions = append(s.EmailInteractions, a.normalizer.Email(event))
		case domain.CategorySessionHistory:
			s.SessionHistory = append(s.SessionHistory, a.normalizer.Session(event))
		}
	}

	if skipped > 0 {
		a.log.Debug("Skipped events with uncategorized types",
			zap.String("buyer_id", buyerID),
			zap.Int("skipped", skipped))
	}

	// Newest first; lastActive reads the head.
	sort.SliceStable(s.PropertyViews, func(i, j int) bool {
		return s.PropertyViews[i].Timestamp.After(s.PropertyViews[j].Timestamp)
	})

	if len(s.PropertyViews) > 0 {
		s.LastActive = s.PropertyViews[0].Timestamp
	} else {
		s.LastActive = time.Now().UTC()
	}

	s.EngagementScore = a.engagementScore(s)
	s.EngagementLevel = domain.EngagementLevelFor(s.EngagementScore)

	return s
}

// engagementScore maps weighted interaction volume onto 1-100. A buyer with
// no events at all scores 0, distinguishing "no data" from "minimal data".
func (a *Aggregator) engagementScore(s *domain.ActivitySummary) int {
	totalEvents := len(s.PropertyViews) + len(s.ClickEvents) + len(s.PageVisits) +
		len(s.SearchHistory) + len(s.OfferHistory) + len(s.EmailInteractions) +
		len(s.SessionHistory)
	if totalEvents == 0 {
		return 0
	}

	opened := 0
	for _, email := range s.EmailInteractions {
		if email.Opened {
			opened++
		}
	}

	weighted := len(s.PropertyViews) +
		len(s.ClickEvents) +
		len(s.PageVisits) +
		len(s.SearchHistory) +
		offerWeight*len(s.OfferHistory) +
		openedEmailWeight*opened

	score := weighted * scoreScale
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return score
}
