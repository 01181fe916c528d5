// Package state memoizes the on-chain deployment state and EIP-712 domain of
// accounts. Concurrent lookups of the same address share one chain read.
package state

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account/challenge"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/rpc"
	"golang.org/x/sync/singleflight"
)

const (
	cacheDeployed = "deployed"
	cacheMetadata = "metadata"
)

// Cache is owned by one account object and lives as long as it does.
// There is no invalidation: deployment is sticky once observed and metadata
// is kept after the first successful read. Failures are never stored.
type Cache struct {
	client  rpc.ChainClient
	metrics *metrics.Service
	group   singleflight.Group

	mu       sync.RWMutex
	deployed map[common.Address]bool
	metadata map[common.Address]challenge.Metadata
}

func New(client rpc.ChainClient, m *metrics.Service) *Cache {
	return &Cache{
		client:   client,
		metrics:  m,
		deployed: make(map[common.Address]bool),
		metadata: make(map[common.Address]challenge.Metadata),
	}
}

// IsDeployed reports whether account has code. A false result is re-checked
// on the next call, a true one never is.
func (c *Cache) IsDeployed(ctx context.Context, account common.Address) (bool, error) {
	c.mu.RLock()
	deployed := c.deployed[account]
	c.mu.RUnlock()

	if deployed {
		c.metrics.ObserveCache(cacheDeployed, metrics.CacheHit)
		return true, nil
	}

	v, err := c.do(ctx, cacheDeployed, account, func(fetchCtx context.Context) (interface{}, error) {
		code, err := c.client.CodeAt(fetchCtx, account, nil)
		if err != nil {
			return false, errors.Wrapf(err, "failed to check deployment of %s", account.Hex())
		}

		isDeployed := len(code) > 0
		if isDeployed {
			c.mu.Lock()
			c.deployed[account] = true
			c.mu.Unlock()
		}

		return isDeployed, nil
	})
	if err != nil {
		return false, err
	}

	return v.(bool), nil //nolint:forcetypeassert
}

// Metadata returns the EIP-712 domain of account.
func (c *Cache) Metadata(ctx context.Context, account common.Address) (challenge.Metadata, error) {
	c.mu.RLock()
	meta, ok := c.metadata[account]
	c.mu.RUnlock()

	if ok {
		c.metrics.ObserveCache(cacheMetadata, metrics.CacheHit)
		return meta, nil
	}

	v, err := c.do(ctx, cacheMetadata, account, func(fetchCtx context.Context) (interface{}, error) {
		deployed, err := c.IsDeployed(fetchCtx, account)
		if err != nil {
			return challenge.Metadata{}, err
		}

		meta, err := challenge.Fetch(fetchCtx, c.client, account, deployed)
		if err != nil {
			return challenge.Metadata{}, err
		}

		c.mu.Lock()
		c.metadata[account] = meta
		c.mu.Unlock()

		return meta, nil
	})
	if err != nil {
		return challenge.Metadata{}, err
	}

	return v.(challenge.Metadata), nil //nolint:forcetypeassert
}

// do runs fetch once per key. The fetch is detached from the caller's
// cancellation so an abandoned lookup still populates the cache.
func (c *Cache) do(
	ctx context.Context,
	cache string,
	account common.Address,
	fetch func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	fetchCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(cache+":"+account.Hex(), func() (interface{}, error) {
		return fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.ObserveCache(cache, metrics.CacheShared)
		} else {
			c.metrics.ObserveCache(cache, metrics.CacheMiss)
		}

		return res.Val, res.Err
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "%s lookup of %s abandoned", cache, account.Hex())
	}
}
