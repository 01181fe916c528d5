package test

import (
	"bytes"
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/kernel"
)

// EntryPoint answers getSenderAddress and getNonce like an ERC-4337 v0.6
// entry point deployed on a Chain. Calls to other contracts return nothing.
type EntryPoint struct {
	address common.Address

	mu     sync.Mutex
	nonces map[common.Address]*big.Int
}

// ServeEntryPoint installs an EntryPoint at address as the chain's call handler.
func ServeEntryPoint(chain *Chain, address common.Address) *EntryPoint {
	ep := &EntryPoint{
		address: address,
		nonces:  make(map[common.Address]*big.Int),
	}

	chain.SetCode(address, []byte{0x60, 0x80})
	chain.OnCall(ep.call)

	return ep
}

// CounterfactualAddress is the sender the fake entry point reports for initCode.
func CounterfactualAddress(initCode []byte) common.Address {
	return common.BytesToAddress(crypto.Keccak256(initCode)[12:])
}

func (e *EntryPoint) SetNonce(sender common.Address, nonce *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nonces[sender] = nonce
}

func (e *EntryPoint) call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if msg.To == nil || *msg.To != e.address || len(msg.Data) < 4 {
		return nil, nil
	}

	getSenderAddress := kernel.EntryPointABI.Methods["getSenderAddress"]
	getNonce := kernel.EntryPointABI.Methods["getNonce"]

	switch {
	case bytes.Equal(msg.Data[:4], getSenderAddress.ID):
		args, err := getSenderAddress.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, errors.Wrap(err, "invalid getSenderAddress call")
		}

		initCode, _ := args[0].([]byte)
		abiErr := kernel.EntryPointABI.Errors["SenderAddressResult"]

		payload, err := abiErr.Inputs.Pack(CounterfactualAddress(initCode))
		if err != nil {
			return nil, err
		}

		return nil, &RevertError{Data: append(append([]byte{}, abiErr.ID.Bytes()[:4]...), payload...)}
	case bytes.Equal(msg.Data[:4], getNonce.ID):
		args, err := getNonce.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, errors.Wrap(err, "invalid getNonce call")
		}

		sender, _ := args[0].(common.Address)

		e.mu.Lock()
		nonce, ok := e.nonces[sender]
		e.mu.Unlock()
		if !ok {
			nonce = new(big.Int)
		}

		return getNonce.Outputs.Pack(nonce)
	default:
		return nil, errors.New("execution reverted")
	}
}
