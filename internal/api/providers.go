package api

import (
	"context"

	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/registry"
	"github/frak-labs/go-smart-wallet/internal/rpc"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewChainClient dials the configured RPC endpoints, bounded by the dial timeout.
func NewChainClient(cfg config.Server, m *metrics.Service) (*rpc.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Chain.DialTimeout)
	defer cancel()

	client, err := rpc.NewClient(ctx, cfg.Chain.RPCURLs, m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chain client")
	}

	return client, nil
}

func NewRegistry(cfg config.Server) (*registry.Registry, error) {
	return registry.FromConfig(cfg.Registry)
}
