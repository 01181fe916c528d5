//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/rpc"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewRegistry,
	metrics.New,
)

var chainClientSet = wire.NewSet(
	NewChainClient,
	wire.Bind(new(rpc.ChainClient), new(*rpc.Client)),
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, chainClientSet)
	return new(Server), nil
}

// InitNewServerWithChain returns a new Server instance using the given chain client.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithChain(
	_ config.Server,
	_ rpc.ChainClient,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
