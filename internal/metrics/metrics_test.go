package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/metrics"
)

func TestServiceCounters(t *testing.T) {
	s, err := metrics.New()
	require.NoError(t, err)

	s.ObserveRPC("eth_call", time.Now(), nil)
	s.ObserveRPC("eth_call", time.Now(), errors.New("boom"))
	s.ObserveSignature("webauthn", nil)
	s.ObserveCache("deployed", metrics.CacheMiss)
	s.ObservePairingRequest("rejected")

	count, err := testutil.GatherAndCount(s.Registry,
		"smart_wallet_rpc_calls_total",
		"smart_wallet_account_signatures_total",
		"smart_wallet_account_cache_lookups_total",
		"smart_wallet_pairing_signature_requests_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNilServiceIsNoop(t *testing.T) {
	var s *metrics.Service

	assert.NotPanics(t, func() {
		s.ObserveRPC("eth_call", time.Now(), nil)
		s.ObserveSignature("ecdsa", nil)
		s.ObserveCache("metadata", metrics.CacheHit)
		s.ObservePairingRequest("success")
	})
}
