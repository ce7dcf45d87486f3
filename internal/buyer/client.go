// Package buyer is the read-only client for the buyer directory. The
// activity pipeline only resolves a buyer's display name for summaries.
package buyer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/config"
)

// Buyer is the slice of the buyer record the activity pipeline reads.
type Buyer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName joins first and last name, falling back to the buyer id.
func (b *Buyer) DisplayName() string {
	name := strings.TrimSpace(b.FirstName + " " + b.LastName)
	if name == "" {
		return b.ID
	}
	return name
}

// Directory resolves buyers by id.
type Directory interface {
	GetBuyer(ctx context.Context, id string) (*Buyer, error)
}

// Client is an HTTP Directory against the buyer service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg *config.Buyer, log *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		log: log,
	}
}

// GetBuyer fetches one buyer record by id.
func (c *Client) GetBuyer(ctx context.Context, id string) (*Buyer, error) {
	url := fmt.Sprintf("%s/buyers/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build buyer request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("buyer lookup failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error("Failed to close buyer response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("buyer lookup returned status %d", resp.StatusCode)
	}

	var b Buyer
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode buyer response: %w", err)
	}

	return &b, nil
}
