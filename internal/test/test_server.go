package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/api/router"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/registry"
)

// TestChainID is the chain the test server serves.
const TestChainID = 31337

// WithTestServer runs closure against a fully wired server backed by an
// in-memory chain with an entry point deployed at the default address.
func WithTestServer(t *testing.T, closure func(s *api.Server, chain *Chain)) {
	t.Helper()

	WithTestServerConfigurable(t, config.DefaultServiceConfigFromEnv(), closure)
}

func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server, chain *Chain)) {
	t.Helper()

	chain := NewTestChain(t, TestChainID)
	ServeEntryPoint(chain, registry.DefaultAddresses.EntryPoint)
	chain.SetCode(registry.DefaultAddresses.Factory, []byte{0x60, 0x80})

	s, err := api.InitNewServerWithChain(cfg, chain)
	require.NoError(t, err, "Failed to init server")

	router.Init(s)

	closure(s, chain)

	errs := s.Shutdown(t.Context())
	require.Empty(t, errs, "Failed to shutdown server")
}

// PerformRequest sends body, JSON encoded unless it is an io.Reader, to the server.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseAndValidate decodes the response into v and validates it.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v runtime.Validatable) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(v), "Failed to parse response")
	require.NoError(t, v.Validate(strfmt.Default), "Response failed validation")
}
