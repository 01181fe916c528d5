package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "smart_wallet"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

// Service owns a dedicated prometheus registry. All methods are safe to call on a nil *Service.
type Service struct {
	Registry *prometheus.Registry

	rpcCalls        *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	signatures      *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	pairingRequests *prometheus.CounterVec
}

func New() (*Service, error) {
	s := &Service{
		Registry: prometheus.NewRegistry(),
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Chain RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Chain RPC call latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		signatures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "account",
			Name:      "signatures_total",
			Help:      "Signatures requested from a signature backend by kind and outcome.",
		}, []string{"kind", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "account",
			Name:      "cache_lookups_total",
			Help:      "Deployment state cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		pairingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "signature_requests_total",
			Help:      "Signature requests sent to a paired device by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.rpcCalls,
		s.rpcDuration,
		s.signatures,
		s.cacheLookups,
		s.pairingRequests,
	} {
		if err := s.Registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metrics collector")
		}
	}

	return s, nil
}

func (s *Service) ObserveRPC(method string, start time.Time, err error) {
	if s == nil {
		return
	}

	s.rpcCalls.WithLabelValues(method, outcome(err)).Inc()
	s.rpcDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (s *Service) ObserveSignature(kind string, err error) {
	if s == nil {
		return
	}

	s.signatures.WithLabelValues(kind, outcome(err)).Inc()
}

func (s *Service) ObserveCache(cache string, result string) {
	if s == nil {
		return
	}

	s.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (s *Service) ObservePairingRequest(result string) {
	if s == nil {
		return
	}

	s.pairingRequests.WithLabelValues(result).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}

	return OutcomeSuccess
}
