package rateshop

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound provider call.
const DefaultTimeout = 30 * time.Second

// Config carries the provider endpoints and credentials. All URL and
// credential fields are required.
type Config struct {
	// TokenURL is the provider's token endpoint (HTTP Basic -> bearer token).
	TokenURL string
	// TokenUsername and TokenPassword are the Basic auth credentials.
	TokenUsername string
	TokenPassword string
	// RateURL is the provider's rate-shop endpoint.
	RateURL string
	// Timeout bounds each outbound HTTP call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.TokenURL == "":
		return fmt.Errorf("rateshop: token URL is required")
	case c.TokenUsername == "":
		return fmt.Errorf("rateshop: token username is required")
	case c.TokenPassword == "":
		return fmt.Errorf("rateshop: token password is required")
	case c.RateURL == "":
		return fmt.Errorf("rateshop: rate URL is required")
	}
	return nil
}

// ConfigFromEnv reads the provider settings from SP360_* environment
// variables and validates them. SP360_TIMEOUT is an optional number of
// seconds.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		TokenURL:      strings.TrimSpace(os.Getenv("SP360_TOKEN_URL")),
		TokenUsername: strings.TrimSpace(os.Getenv("SP360_TOKEN_USERNAME")),
		TokenPassword: strings.TrimSpace(os.Getenv("SP360_TOKEN_PASSWORD")),
		RateURL:       strings.TrimSpace(os.Getenv("SP360_RATE_SHOP_URL")),
		Timeout:       DefaultTimeout,
	}

	if raw := strings.TrimSpace(os.Getenv("SP360_TIMEOUT")); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("invalid SP360_TIMEOUT value %q", raw)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
