package rpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ChainClient is the subset of chain access the smart account layer needs.
// *ethclient.Client and *Client both implement it.
type ChainClient interface {
	// ChainID returns the chain the client is bound to.
	ChainID(ctx context.Context) (*big.Int, error)

	// CallContract executes a read-only call. Reverts are returned as errors
	// implementing go-ethereum's rpc.DataError.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)

	// CodeAt returns the runtime bytecode of an account.
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)

	// EstimateGas runs a speculative execution of msg.
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}
