package rateshop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/shipmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-123"

// newProviderStub spins up a fake provider exposing /token and /rates.
// rateHandler may be nil for the default canned response.
func newProviderStub(t *testing.T, rateHandler http.HandlerFunc) (*httptest.Server, Config) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "api-user" || pass != "api-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": testToken, "expires_in": 600})
	})
	if rateHandler == nil {
		rateHandler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates": []}`))
		}
	}
	mux.HandleFunc("/rates", rateHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := Config{
		TokenURL:      srv.URL + "/token",
		TokenUsername: "api-user",
		TokenPassword: "api-pass",
		RateURL:       srv.URL + "/rates",
	}
	return srv, cfg
}

func testShipment() core.ShipmentRequest {
	return core.ShipmentRequest{
		FromAddress: core.Address{AddressLine1: "1 Main St", CityTown: "New York", StateProvince: "NY", PostalCode: "10001", CountryCode: "US"},
		ToAddress:   core.Address{AddressLine1: "2 Market St", CityTown: "San Francisco", StateProvince: "CA", PostalCode: "94105", CountryCode: "US"},
		Parcel:      core.Parcel{Length: 10, Width: 6, Height: 4, DimUnit: "IN", Weight: 2, WeightUnit: "LB"},
		ParcelType:  "PKG",
	}
}

func TestEngine_Authenticate(t *testing.T) {
	_, cfg := newProviderStub(t, nil)
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	token, err := engine.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestEngine_AuthenticateBadCredentials(t *testing.T) {
	_, cfg := newProviderStub(t, nil)
	cfg.TokenPassword = "wrong"
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	_, err = engine.Authenticate(context.Background())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestEngine_AuthenticateMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_in": 600}`))
	}))
	t.Cleanup(srv.Close)

	engine, err := NewEngine(Config{TokenURL: srv.URL, TokenUsername: "u", TokenPassword: "p", RateURL: srv.URL})
	require.NoError(t, err)

	_, err = engine.Authenticate(context.Background())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestEngine_ShopFiltersAndSorts(t *testing.T) {
	_, cfg := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.Header.Get("compactResponse"))

		var shipment core.ShipmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&shipment))
		assert.Equal(t, "10001", shipment.FromAddress.PostalCode)

		_, _ = w.Write([]byte(`{"rates": [
			{"carrier": "FEDEX", "serviceId": "2DAY", "totalCarrierCharge": 25, "deliveryCommitment": {"minEstimatedNumberOfDays": "3", "maxEstimatedNumberOfDays": "5"}},
			{"carrier": "UPS", "serviceId": "GROUND", "totalCarrierCharge": "10.00", "deliveryCommitment": {"minEstimatedNumberOfDays": 1, "maxEstimatedNumberOfDays": 2}},
			{"carrier": "USPS", "serviceId": "PM", "totalCarrierCharge": 0, "deliveryCommitment": {"minEstimatedNumberOfDays": 1, "maxEstimatedNumberOfDays": 1}},
			{"carrier": "DHL", "serviceId": "EXP", "totalCarrierCharge": 15, "deliveryCommitment": {"minEstimatedNumberOfDays": 2, "maxEstimatedNumberOfDays": 3}}
		]}`))
	})

	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	result, err := engine.Shop(context.Background(), testShipment(), core.RateFilter{MaxPrice: 20})
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalOptions)
	assert.Equal(t, 2, result.FilteredCount)
	require.Len(t, result.Options, 2)
	assert.Equal(t, "UPS", result.Options[0].Carrier)
	assert.Equal(t, 10.0, result.Options[0].TotalCharge)
	assert.Equal(t, 2, result.Options[0].MaxDeliveryDays)
	assert.Equal(t, "DHL", result.Options[1].Carrier)
	assert.NotEmpty(t, result.Options[0].Raw, "provider payload should be preserved")
}

func TestEngine_ShopEmptyProviderResponse(t *testing.T) {
	_, cfg := newProviderStub(t, nil)
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	result, err := engine.Shop(context.Background(), testShipment(), core.RateFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalOptions)
	assert.Equal(t, 0, result.FilteredCount)
	assert.Empty(t, result.Options)
}

func TestEngine_ShopProviderFailureSurfaces(t *testing.T) {
	_, cfg := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream blew up`))
	})
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	_, err = engine.Shop(context.Background(), testShipment(), core.RateFilter{})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadGateway, provErr.StatusCode)
	assert.Equal(t, "upstream blew up", provErr.Body)
}

func TestEngine_ShopUnparseableBody(t *testing.T) {
	_, cfg := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	_, err = engine.Shop(context.Background(), testShipment(), core.RateFilter{})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusOK, provErr.StatusCode)
	assert.Equal(t, "not json", provErr.Body)
}

func TestNewEngine_ValidatesConfig(t *testing.T) {
	_, err := NewEngine(Config{})
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SP360_TOKEN_URL", "https://api.example.com/token")
	t.Setenv("SP360_TOKEN_USERNAME", "u")
	t.Setenv("SP360_TOKEN_PASSWORD", "p")
	t.Setenv("SP360_RATE_SHOP_URL", "https://api.example.com/rates")
	t.Setenv("SP360_TIMEOUT", "10")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/token", cfg.TokenURL)
	assert.Equal(t, 10, int(cfg.Timeout.Seconds()))

	t.Setenv("SP360_TOKEN_PASSWORD", "")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
