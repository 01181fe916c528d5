package test

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	MethodChainID      = "eth_chainId"
	MethodCallContract = "eth_call"
	MethodCodeAt       = "eth_getCode"
	MethodEstimateGas  = "eth_estimateGas"
)

// Chain is an in-memory rpc.ChainClient. It counts calls per method and can
// hold every call until released.
type Chain struct {
	mu      sync.Mutex
	chainID *big.Int
	code    map[common.Address][]byte
	calls   map[string]int
	gate    chan struct{}

	callFn     func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	estimateFn func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	codeErr    error
}

// RevertError mimics the JSON-RPC error go-ethereum returns for a reverted call.
type RevertError struct {
	Data []byte
}

func (e *RevertError) Error() string {
	return "execution reverted"
}

func (e *RevertError) ErrorCode() int {
	return 3 //nolint:mnd
}

func (e *RevertError) ErrorData() interface{} {
	return hexutil.Encode(e.Data)
}

func NewTestChain(t *testing.T, chainID int64) *Chain {
	t.Helper()

	return &Chain{
		chainID: big.NewInt(chainID),
		code:    make(map[common.Address][]byte),
		calls:   make(map[string]int),
	}
}

func WithTestChain(t *testing.T, chainID int64, closure func(chain *Chain)) {
	t.Helper()

	closure(NewTestChain(t, chainID))
}

func (c *Chain) SetCode(account common.Address, code []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.code[account] = code
}

func (c *Chain) SetCodeError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.codeErr = err
}

func (c *Chain) OnCall(fn func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.callFn = fn
}

func (c *Chain) OnEstimateGas(fn func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.estimateFn = fn
}

// Block makes every following call wait until release is called.
func (c *Chain) Block() (release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gate := make(chan struct{})
	c.gate = gate

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.gate = nil
			c.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how often method was invoked.
func (c *Chain) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls[method]
}

func (c *Chain) ChainID(ctx context.Context) (*big.Int, error) {
	if err := c.enter(ctx, MethodChainID); err != nil {
		return nil, err
	}

	return new(big.Int).Set(c.chainID), nil
}

func (c *Chain) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if err := c.enter(ctx, MethodCallContract); err != nil {
		return nil, err
	}

	c.mu.Lock()
	fn := c.callFn
	c.mu.Unlock()

	if fn == nil {
		return nil, nil
	}

	return fn(ctx, msg)
}

func (c *Chain) CodeAt(ctx context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	if err := c.enter(ctx, MethodCodeAt); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.codeErr != nil {
		return nil, c.codeErr
	}

	return c.code[account], nil
}

func (c *Chain) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if err := c.enter(ctx, MethodEstimateGas); err != nil {
		return 0, err
	}

	c.mu.Lock()
	fn := c.estimateFn
	c.mu.Unlock()

	if fn == nil {
		return 21000, nil //nolint:mnd
	}

	return fn(ctx, msg)
}

func (c *Chain) enter(ctx context.Context, method string) error {
	c.mu.Lock()
	c.calls[method]++
	gate := c.gate
	c.mu.Unlock()

	if gate == nil {
		return nil
	}

	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
