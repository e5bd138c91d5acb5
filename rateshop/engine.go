package rateshop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/shipmesh/core"
	"github.com/hupe1980/shipmesh/logging"
)

// Options configure the Engine beyond its Config.
type Options struct {
	// HTTPClient overrides the default client. Its Timeout is left as-is;
	// when nil a client with Config.Timeout is created.
	HTTPClient *http.Client
	// Logger receives call-level diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine talks to the shipping-rate provider. It holds no mutable state —
// each call is an independent authenticate-then-fetch pipeline — so a single
// Engine is safe for concurrent use.
type Engine struct {
	cfg    Config
	client *http.Client
	logger logging.Logger
}

// NewEngine validates the config and constructs an engine.
func NewEngine(cfg Config, optFns ...func(o *Options)) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Engine{cfg: cfg, client: client, logger: logging.OrNoOp(opts.Logger)}, nil
}

// tokenResponse is the provider's token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Authenticate requests a fresh bearer token using HTTP Basic credentials.
// Tokens are not cached: every Shop call re-authenticates.
func (e *Engine) Authenticate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.TokenURL, nil)
	if err != nil {
		return "", &AuthenticationError{Cause: err}
	}
	req.SetBasicAuth(e.cfg.TokenUsername, e.cfg.TokenPassword)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("rateshop.auth.transport_failed", "error", err.Error())
		return "", &AuthenticationError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn("rateshop.auth.rejected", "status", resp.StatusCode)
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body), Cause: err}
	}
	if tok.AccessToken == "" {
		return "", &AuthenticationError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Cause:      fmt.Errorf("token response missing access_token"),
		}
	}

	e.logger.Debug("rateshop.auth.ok", "expires_in", tok.ExpiresIn)
	return tok.AccessToken, nil
}

// Shop fetches carrier quotes for the shipment and applies the filter.
// An empty provider response or a filter excluding every quote is a valid
// empty result; only authentication and transport failures are errors.
func (e *Engine) Shop(ctx context.Context, shipment core.ShipmentRequest, filter core.RateFilter) (*core.RateShopResult, error) {
	start := time.Now()

	token, err := e.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	quotes, err := e.fetchRates(ctx, token, shipment)
	if err != nil {
		return nil, err
	}

	options := filterAndSort(quotes, filter)

	e.logger.Info("rateshop.shop.ok",
		"total", len(quotes),
		"filtered", len(options),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &core.RateShopResult{
		TotalOptions:  len(quotes),
		FilteredCount: len(options),
		Options:       options,
	}, nil
}

// rateResponse is the provider's rate endpoint payload. Each rate is kept
// raw so provider-specific fields survive untouched.
type rateResponse struct {
	Rates []json.RawMessage `json:"rates"`
}

// providerRate covers the subset of the rate payload the engine interprets.
// Numeric fields arrive as numbers or quoted strings depending on the
// provider account, hence the flexible decoders.
type providerRate struct {
	Carrier            string    `json:"carrier"`
	ServiceID          string    `json:"serviceId"`
	TotalCarrierCharge flexFloat `json:"totalCarrierCharge"`
	DeliveryCommitment struct {
		MinEstimatedNumberOfDays flexInt `json:"minEstimatedNumberOfDays"`
		MaxEstimatedNumberOfDays flexInt `json:"maxEstimatedNumberOfDays"`
	} `json:"deliveryCommitment"`
}

func (e *Engine) fetchRates(ctx context.Context, token string, shipment core.ShipmentRequest) ([]core.RateQuote, error) {
	payload, err := json.Marshal(shipment)
	if err != nil {
		return nil, &ProviderError{Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.RateURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("compactResponse", "true")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("rateshop.fetch.transport_failed", "error", err.Error())
		return nil, &ProviderError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn("rateshop.fetch.rejected", "status", resp.StatusCode)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded rateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body), Cause: err}
	}

	quotes := make([]core.RateQuote, 0, len(decoded.Rates))
	for _, raw := range decoded.Rates {
		var pr providerRate
		if err := json.Unmarshal(raw, &pr); err != nil {
			return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body), Cause: err}
		}
		quotes = append(quotes, core.RateQuote{
			Carrier:         pr.Carrier,
			Service:         pr.ServiceID,
			TotalCharge:     float64(pr.TotalCarrierCharge),
			MinDeliveryDays: int(pr.DeliveryCommitment.MinEstimatedNumberOfDays),
			MaxDeliveryDays: int(pr.DeliveryCommitment.MaxEstimatedNumberOfDays),
			Raw:             raw,
		})
	}
	return quotes, nil
}

// flexFloat decodes a JSON number or a quoted number string.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", data, err)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON integer or a quoted integer string.
type flexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %s: %w", data, err)
	}
	*f = flexInt(v)
	return nil
}
