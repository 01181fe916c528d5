package rpc

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/frak-labs/go-smart-wallet/internal/metrics"
)

var (
	ErrNoHealthyClient = errors.New("all RPC clients are unavailable")
	ErrClientClosed    = errors.New("RPC client is closed")
)

// Client wraps several ethclient connections to the same chain and fails over
// between them. A node is only skipped when a call to it fails in transport;
// JSON-RPC errors, reverts included, come from a working node and are returned.
type Client struct {
	urls    []string
	metrics *metrics.Service

	mu      sync.RWMutex
	clients []*ethclient.Client
	current int // index of the node that answered last
	closed  bool

	chainIDMu sync.Mutex
	chainID   *big.Int
}

var _ ChainClient = (*Client)(nil)

// NewClient dials every URL once. Unreachable URLs are retried lazily on use.
func NewClient(ctx context.Context, urls []string, m *metrics.Service) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, 0, len(urls))
	connected := 0
	for _, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			clients = append(clients, nil)
			continue
		}
		clients = append(clients, client)
		connected++
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &Client{
		urls:    urls,
		clients: clients,
		metrics: m,
	}, nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

// ChainID is read once and memoized. Failed reads are retried.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.chainIDMu.Lock()
	defer c.chainIDMu.Unlock()

	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}

	var id *big.Int
	err := c.do(ctx, "eth_chainId", func(client *ethclient.Client) error {
		var err error
		id, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	c.chainID = id
	return new(big.Int).Set(id), nil
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var res []byte
	err := c.do(ctx, "eth_call", func(client *ethclient.Client) error {
		var err error
		res, err = client.CallContract(ctx, msg, blockNumber)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call contract")
	}

	return res, nil
}

func (c *Client) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	var code []byte
	err := c.do(ctx, "eth_getCode", func(client *ethclient.Client) error {
		var err error
		code, err = client.CodeAt(ctx, account, blockNumber)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get code")
	}

	return code, nil
}

func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := c.do(ctx, "eth_estimateGas", func(client *ethclient.Client) error {
		var err error
		gas, err = client.EstimateGas(ctx, msg)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}

	return gas, nil
}

// do runs call against the current node, then against the following ones
// while the call fails in transport. No lock is held during network I/O.
func (c *Client) do(ctx context.Context, method string, call func(client *ethclient.Client) error) error {
	c.mu.RLock()
	first := c.current
	n := len(c.clients)
	c.mu.RUnlock()

	var lastErr error
	for i := range n {
		idx := (first + i) % n

		client, err := c.client(ctx, idx)
		if err != nil {
			if errors.Is(err, ErrClientClosed) {
				return err
			}
			lastErr = err
			continue
		}

		start := time.Now()
		err = call(client)
		c.metrics.ObserveRPC(method, start, err)

		if err == nil || !isTransportError(ctx, err) {
			c.setCurrent(idx)
			return err
		}

		log.Warn().
			Str("url", c.urls[idx]).
			Str("method", method).
			Err(err).
			Msg("RPC node failed, trying next node")
		lastErr = err
	}

	return errors.Wrapf(ErrNoHealthyClient, "last error: %v", lastErr)
}

// client returns the connection to node idx, dialing it outside the lock when
// it was never reached.
func (c *Client) client(ctx context.Context, idx int) (*ethclient.Client, error) {
	c.mu.RLock()
	client, closed := c.clients[idx], c.closed
	c.mu.RUnlock()

	if closed {
		return nil, ErrClientClosed
	}
	if client != nil {
		return client, nil
	}

	dialed, err := ethclient.DialContext(ctx, c.urls[idx])
	if err != nil {
		log.Warn().Str("url", c.urls[idx]).Err(err).Msg("RPC node still unreachable")
		return nil, errors.Wrapf(err, "failed to dial %s", c.urls[idx])
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		dialed.Close()
		return nil, ErrClientClosed
	}
	if c.clients[idx] != nil {
		// dialed concurrently
		dialed.Close()
		return c.clients[idx], nil
	}
	c.clients[idx] = dialed

	return dialed, nil
}

func (c *Client) setCurrent(idx int) {
	c.mu.Lock()
	c.current = idx
	c.mu.Unlock()
}

// isTransportError reports whether err means the node could not answer.
// A JSON-RPC error object is an answer.
func isTransportError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var rpcErr gethrpc.Error
	return !errors.As(err, &rpcErr)
}
