// Seeds a development environment with synthetic buyer activity by posting
// generated events to a running API instance.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/auth"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/config"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/logger"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/synthetic"
)

func main() {
	_ = godotenv.Load()

	var (
		apiURL  = flag.String("api", "http://localhost:8080", "base URL of the activity API")
		buyers  = flag.Int("buyers", 5, "number of synthetic buyers to seed")
		perUser = flag.Int("events", 40, "events to generate per buyer")
		seed    = flag.Uint64("seed", 0, "generator seed, 0 for random")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		if err := log.Sync(); err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	verifier := auth.NewVerifier(&cfg.Auth, log)
	token, err := verifier.GenerateToken("seeder", "seeder@landivo.com", []string{"read:buyers", "delete:buyers"}, time.Hour)
	if err != nil {
		log.Fatal("Failed to generate seeder token", zap.Error(err))
	}

	generator := synthetic.New(*seed)
	client := &http.Client{Timeout: 30 * time.Second}
	endpoint := *apiURL + "/activity"

	for i := 0; i < *buyers; i++ {
		buyerID := fmt.Sprintf("demo-buyer-%d", i+1)
		events := generator.Events(buyerID, *perUser)

		accepted, rejected, err := post(client, endpoint, token, events)
		if err != nil {
			log.Error("Failed to seed buyer",
				zap.String("buyer_id", buyerID),
				zap.Error(err))
			continue
		}

		log.Info("Seeded buyer activity",
			zap.String("buyer_id", buyerID),
			zap.Int("accepted", accepted),
			zap.Int("rejected", rejected))
	}
}

func post(client *http.Client, endpoint, token string, events []dto.ActivityEventPayload) (int, int, error) {
	body, err := json.Marshal(dto.RecordActivityRequest{Events: events})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal events: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to post events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return 0, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result dto.RecordActivityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Accepted, result.Rejected, nil
}
