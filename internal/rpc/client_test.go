package rpc_test

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/rpc"
)

func TestNewClientRequiresURL(t *testing.T) {
	_, err := rpc.NewClient(t.Context(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one RPC URL")
}

func TestNewClientRejectsUnsupportedScheme(t *testing.T) {
	_, err := rpc.NewClient(t.Context(), []string{"ftp://127.0.0.1:1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to any RPC node")
}

// jsonRPCNode answers the methods the client uses, counting calls per method.
type jsonRPCNode struct {
	*httptest.Server

	// delay is applied to every request.
	delay time.Duration
	// revert makes eth_call answer with an execution reverted error.
	revert bool

	mu    sync.Mutex
	calls map[string]int
}

func newJSONRPCNode(t *testing.T, opts ...func(n *jsonRPCNode)) *jsonRPCNode {
	t.Helper()

	node := &jsonRPCNode{calls: make(map[string]int)}
	for _, opt := range opts {
		opt(node)
	}

	node.Server = httptest.NewServer(http.HandlerFunc(node.serve))
	t.Cleanup(node.Close)

	return node
}

func (n *jsonRPCNode) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	n.mu.Unlock()

	time.Sleep(n.delay)

	res := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	switch req.Method {
	case "eth_blockNumber":
		res["result"] = "0x10"
	case "eth_chainId":
		res["result"] = "0x2105"
	case "eth_getCode":
		res["result"] = "0x6000"
	case "eth_estimateGas":
		res["result"] = "0x5208"
	case "eth_call":
		if n.revert {
			res["error"] = map[string]any{"code": 3, "message": "execution reverted", "data": "0x6ca7b806"}
		} else {
			res["result"] = "0x"
		}
	default:
		res["result"] = "0x"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (n *jsonRPCNode) Calls() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return maps.Clone(n.calls)
}

func (n *jsonRPCNode) Total() int {
	total := 0
	for _, v := range n.Calls() {
		total += v
	}

	return total
}

func TestClientFailsOverToHealthyNode(t *testing.T) {
	dead := newJSONRPCNode(t)
	dead.Close()
	live := newJSONRPCNode(t)

	m, err := metrics.New()
	require.NoError(t, err)

	client, err := rpc.NewClient(t.Context(), []string{dead.URL, live.URL}, m)
	require.NoError(t, err)
	defer client.Close()

	code, err := client.CodeAt(t.Context(), common.HexToAddress("0x2222222222222222222222222222222222222222"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00}, code)

	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(8453), chainID.Uint64())

	gas, err := client.EstimateGas(t.Context(), ethereum.CallMsg{})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gas)

	hitsBefore := live.Total()
	_, err = client.ChainID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, hitsBefore, live.Total(), "chain id must be memoized")

	assert.Zero(t, live.Calls()["eth_blockNumber"], "calls must not be preceded by a health check")
}

func TestClientConcurrentReadsDoNotSerialize(t *testing.T) {
	const (
		readers = 5
		delay   = 200 * time.Millisecond
	)

	node := newJSONRPCNode(t, func(n *jsonRPCNode) { n.delay = delay })

	client, err := rpc.NewClient(t.Context(), []string{node.URL}, nil)
	require.NoError(t, err)
	defer client.Close()

	var wg sync.WaitGroup
	errs := make(chan error, readers)

	start := time.Now()
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.CodeAt(t.Context(), common.HexToAddress("0x2222222222222222222222222222222222222222"), nil)
			errs <- err
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Less(t, elapsed, time.Duration(readers-1)*delay, "concurrent reads ran one after another")
	assert.Equal(t, map[string]int{"eth_getCode": readers}, node.Calls())
}

func TestClientReturnsRevertWithoutFailover(t *testing.T) {
	first := newJSONRPCNode(t, func(n *jsonRPCNode) { n.revert = true })
	second := newJSONRPCNode(t)

	client, err := rpc.NewClient(t.Context(), []string{first.URL, second.URL}, nil)
	require.NoError(t, err)
	defer client.Close()

	to := common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")
	_, err = client.CallContract(t.Context(), ethereum.CallMsg{To: &to}, nil)
	require.Error(t, err)

	var dataErr gethrpc.DataError
	require.True(t, errors.As(err, &dataErr), "revert data must survive wrapping")
	assert.Equal(t, "0x6ca7b806", dataErr.ErrorData())

	assert.NotErrorIs(t, err, rpc.ErrNoHealthyClient)
	assert.Zero(t, second.Total(), "a revert is an answer, not a node failure")
}

func TestClientAllNodesDown(t *testing.T) {
	a := newJSONRPCNode(t)
	a.Close()
	b := newJSONRPCNode(t)
	b.Close()

	client, err := rpc.NewClient(t.Context(), []string{a.URL, b.URL}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.CodeAt(t.Context(), common.Address{}, nil)
	require.ErrorIs(t, err, rpc.ErrNoHealthyClient)
}

func TestClientClosed(t *testing.T) {
	node := newJSONRPCNode(t)

	client, err := rpc.NewClient(t.Context(), []string{node.URL}, nil)
	require.NoError(t, err)
	client.Close()

	_, err = client.CodeAt(t.Context(), common.Address{}, nil)
	require.ErrorIs(t, err, rpc.ErrClientClosed)
	assert.Zero(t, node.Total())
}
