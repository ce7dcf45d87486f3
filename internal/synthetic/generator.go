// Package synthetic produces demo activity summaries for development and
// seeding environments that have no real traffic. Output is always marked
// with Source "synthetic" so it can never be mistaken for observed behavior.
package synthetic

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
)

// Source marks generator output as fabricated.
const Source = "synthetic"

// Summary is a generated activity summary plus its provenance marker.
type Summary struct {
	domain.ActivitySummary
	Source string `json:"source"`
}

var (
	pages = []string{
		"/properties",
		"/properties/search",
		"/vip/dashboard",
		"/offers",
		"/profile",
	}
	elements = []string{
		"Property Card",
		"Make Offer Button",
		"Schedule Viewing Button",
		"Gallery Image",
		"Contact Agent Link",
	}
	offerStatuses = []string{
		domain.StatusPending,
		domain.StatusAccepted,
		domain.StatusRejected,
		domain.StatusCountered,
	}
)

// Generator fabricates plausible buyer activity.
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a generator. A fixed seed yields reproducible output; pass 0
// for a random seed.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Summary generates a demo activity summary for a buyer.
func (g *Generator) Summary(buyerID, buyerName string) *Summary {
	now := time.Now().UTC()

	s := &Summary{Source: Source}
	s.BuyerID = buyerID
	s.BuyerName = buyerName

	for i := 0; i < g.faker.Number(3, 7); i++ {
		s.PropertyViews = append(s.PropertyViews, domain.PropertyView{
			PropertyID:      uuid.NewString(),
			PropertyTitle:   g.propertyTitle(),
			PropertyAddress: g.address(),
			Timestamp:       g.recentTime(now, 30),
			Duration:        g.faker.Number(30, 600),
			Details:         "Viewed property details",
		})
	}

	for i := 0; i < g.faker.Number(5, 10); i++ {
		s.ClickEvents = append(s.ClickEvents, domain.ClickEvent{
			Element:   g.faker.RandomString(elements),
			Page:      g.faker.RandomString(pages),
			Timestamp: g.recentTime(now, 30),
		})
	}

	for i := 0; i < g.faker.Number(3, 5); i++ {
		s.PageVisits = append(s.PageVisits, domain.PageVisit{
			URL:       g.faker.RandomString(pages),
			Timestamp: g.recentTime(now, 30),
			Duration:  g.faker.Number(30, 300),
		})
	}

	for i := 0; i < g.faker.Number(1, 3); i++ {
		s.SearchHistory = append(s.SearchHistory, domain.SearchRecord{
			Query:      fmt.Sprintf("%s %s", g.faker.City(), g.faker.RandomString([]string{"land", "acreage", "lots"})),
			Timestamp:  g.recentTime(now, 30),
			Results:    g.faker.Number(0, 40),
			SearchType: "standard",
		})
	}

	for i := 0; i < g.faker.Number(0, 2); i++ {
		s.OfferHistory = append(s.OfferHistory, domain.OfferRecord{
			PropertyID:      uuid.NewString(),
			PropertyTitle:   g.propertyTitle(),
			PropertyAddress: g.address(),
			Amount:          float64(g.faker.Number(20, 250)) * 1000,
			Timestamp:       g.recentTime(now, 60),
			Status:          g.faker.RandomString(offerStatuses),
		})
	}

	for i := 0; i < g.faker.Number(1, 2); i++ {
		opened := g.faker.Number(1, 100) <= 80
		email := domain.EmailInteraction{
			EmailID: uuid.NewString(),
			Subject: g.faker.RandomString([]string{"New properties matching your search", "Price drop alert", "Email from Landivo"}),
			Opened:  opened,
		}
		if opened {
			email.OpenTimestamp = g.recentTime(now, 30)
		}
		s.EmailInteractions = append(s.EmailInteractions, email)
	}

	for i := 0; i < g.faker.Number(1, 3); i++ {
		login := g.recentTime(now, 30)
		logout := login.Add(time.Duration(g.faker.Number(5, 90)) * time.Minute)
		s.SessionHistory = append(s.SessionHistory, domain.SessionRecord{
			LoginTime:  login,
			LogoutTime: &logout,
			Device:     g.faker.UserAgent(),
			IPAddress:  g.faker.IPv4Address(),
		})
	}

	if len(s.PropertyViews) > 0 {
		latest := s.PropertyViews[0].Timestamp
		for _, v := range s.PropertyViews[1:] {
			if v.Timestamp.After(latest) {
				latest = v.Timestamp
			}
		}
		s.LastActive = latest
	} else {
		s.LastActive = now
	}

	weighted := len(s.PropertyViews) + len(s.ClickEvents) + len(s.PageVisits) +
		len(s.SearchHistory) + 3*len(s.OfferHistory) + 2*g.openedCount(s.EmailInteractions)
	score := weighted * 4
	if score > 100 {
		score = 100
	}
	if score < 1 {
		score = 1
	}
	s.EngagementScore = score
	s.EngagementLevel = domain.EngagementLevelFor(score)

	return s
}

// Events generates raw ingestion payloads for a buyer, suitable for posting
// to the activity endpoint when seeding an environment.
func (g *Generator) Events(buyerID string, count int) []dto.ActivityEventPayload {
	now := time.Now().UTC()

	events := make([]dto.ActivityEventPayload, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, g.event(buyerID, now))
	}
	return events
}

func (g *Generator) event(buyerID string, now time.Time) dto.ActivityEventPayload {
	timestamp := g.recentTime(now, 30).Format(time.RFC3339)

	switch g.faker.Number(0, 4) {
	case 0:
		propertyID := uuid.NewString()
		return dto.ActivityEventPayload{
			Type:       domain.TypePropertyView,
			BuyerID:    buyerID,
			Timestamp:  timestamp,
			PropertyID: propertyID,
			EventData: map[string]interface{}{
				"propertyId":      propertyID,
				"propertyTitle":   g.propertyTitle(),
				"propertyAddress": g.address(),
				"duration":        g.faker.Number(30, 600),
			},
		}
	case 1:
		return dto.ActivityEventPayload{
			Type:      domain.TypeClick,
			BuyerID:   buyerID,
			Timestamp: timestamp,
			EventData: map[string]interface{}{
				"element": g.faker.RandomString(elements),
				"page":    g.faker.RandomString(pages),
			},
		}
	case 2:
		return dto.ActivityEventPayload{
			Type:      domain.TypePageView,
			BuyerID:   buyerID,
			Timestamp: timestamp,
			EventData: map[string]interface{}{
				"path":     g.faker.RandomString(pages),
				"duration": g.faker.Number(30, 300),
			},
		}
	case 3:
		return dto.ActivityEventPayload{
			Type:      domain.TypeSearch,
			BuyerID:   buyerID,
			Timestamp: timestamp,
			EventData: map[string]interface{}{
				"query":        fmt.Sprintf("%s land", g.faker.City()),
				"resultsCount": g.faker.Number(0, 40),
			},
		}
	default:
		propertyID := uuid.NewString()
		return dto.ActivityEventPayload{
			Type:       domain.TypeOfferSubmission,
			BuyerID:    buyerID,
			Timestamp:  timestamp,
			PropertyID: propertyID,
			EventData: map[string]interface{}{
				"propertyId":      propertyID,
				"propertyTitle":   g.propertyTitle(),
				"propertyAddress": g.address(),
				"amount":          float64(g.faker.Number(20, 250)) * 1000,
				"status":          g.faker.RandomString(offerStatuses),
			},
		}
	}
}

func (g *Generator) openedCount(emails []domain.EmailInteraction) int {
	opened := 0
	for _, e := range emails {
		if e.Opened {
			opened++
		}
	}
	return opened
}

func (g *Generator) propertyTitle() string {
	return fmt.Sprintf("%d Acres in %s, %s", g.faker.Number(1, 40), g.faker.City(), g.faker.StateAbr())
}

func (g *Generator) address() string {
	return fmt.Sprintf("%s, %s, %s", g.faker.Street(), g.faker.City(), g.faker.StateAbr())
}

func (g *Generator) recentTime(now time.Time, withinDays int) time.Time {
	offset := time.Duration(g.faker.Number(0, withinDays*24*60)) * time.Minute
	return now.Add(-offset)
}
