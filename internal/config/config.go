package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds server-level settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

// ClickHouse holds activity store connection settings.
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Auth holds bearer-token verification settings. Namespace is the claim
// prefix legacy tokens use for their roles list.
type Auth struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"AUTH_ISSUER" default:"landivo-api"`
	Namespace string `envconfig:"AUTH_NAMESPACE" default:"https://landivo.com"`
}

// Property holds settings for the property collaborator service.
type Property struct {
	BaseURL    string `envconfig:"PROPERTY_BASE_URL" default:"http://localhost:8081"`
	TimeoutSec int    `envconfig:"PROPERTY_TIMEOUT_SEC" default:"5"`
}

// Buyer holds settings for the buyer directory collaborator service.
type Buyer struct {
	BaseURL    string `envconfig:"BUYER_BASE_URL" default:"http://localhost:8081"`
	TimeoutSec int    `envconfig:"BUYER_TIMEOUT_SEC" default:"5"`
}

type Config struct {
	Service    Service
	ClickHouse ClickHouse
	Auth       Auth
	Property   Property
	Buyer      Buyer
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
