package common_test

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/registry"
	"github/frak-labs/go-smart-wallet/internal/test"
)

func TestGetReadyReadiness(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.Chain) {
		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyReadinessBroken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.Chain) {
		// forcefully remove an initialized component to check if ready state works
		s.Registry = nil

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())
	})
}

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.Chain) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "Probes: contracts deployed")
	})
}

func TestGetHealthyMissingFactory(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, chain *test.Chain) {
		chain.SetCode(registry.DefaultAddresses.Factory, nil)

		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "factory")
		assert.Contains(t, res.Body.String(), "has no code")
	})
}

func TestGetHealthyChainDown(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, chain *test.Chain) {
		chain.SetCodeError(errors.New("connection refused"))

		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "connection refused")
	})
}

func TestGetVersion(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.Chain) {
		res := test.PerformRequest(t, s, "GET", "/-/version", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, config.GetFormattedBuildArgs(), res.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.Chain) {
		test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)

		res := test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "smart_wallet_http_requests_total")
	})
}
