// Package property is the read-only client for the property collaborator
// service. The activity pipeline only ever fetches a property by id to
// enrich offer records; CRUD over properties lives elsewhere.
package property

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/config"
)

// Property is the slice of the property record the activity pipeline reads.
type Property struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	StreetAddress string  `json:"streetAddress"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	AskingPrice   float64 `json:"askingPrice"`
	MinPrice      float64 `json:"minPrice"`
	PurchasePrice float64 `json:"purchasePrice"`
}

// Fetcher fetches a property by id.
type Fetcher interface {
	GetProperty(ctx context.Context, id string) (*Property, error)
}

// Placeholder is the fallback record used when the property lookup fails;
// summary computation always completes.
func Placeholder(id string) *Property {
	return &Property{
		ID:    id,
		Title: "Unknown Property",
	}
}

// Client is an HTTP Fetcher against the property service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg *config.Property, log *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		log: log,
	}
}

// GetProperty fetches one property record by id.
func (c *Client) GetProperty(ctx context.Context, id string) (*Property, error) {
	url := fmt.Sprintf("%s/properties/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build property request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property lookup failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error("Failed to close property response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("property lookup returned status %d", resp.StatusCode)
	}

	var prop Property
	if err := json.NewDecoder(resp.Body).Decode(&prop); err != nil {
		return nil, fmt.Errorf("failed to decode property response: %w", err)
	}

	return &prop, nil
}
