// Package account implements the Kernel v2 smart account on top of an
// ERC-4337 v0.6 entry point. Every constructor reduces its signer to a
// backend.SignatureFunc and hands it to New.
package account

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/userop"
)

var (
	// ModeSudo routes a signature to the account's default validator.
	ModeSudo = []byte{0x00, 0x00, 0x00, 0x00}
	// ModeRecovery routes a signature to the recovery validator.
	ModeRecovery = []byte{0x00, 0x00, 0x00, 0x01}
)

// Call is one call performed by the account. A nil Value means zero.
type Call = kernel.Call

// FactoryArgs is empty when the account cannot or must not be deployed.
type FactoryArgs struct {
	Factory     *common.Address
	FactoryData []byte
}

// IsEmpty reports whether no deployment should be attached.
func (f *FactoryArgs) IsEmpty() bool {
	return f == nil || f.Factory == nil
}

// InitCode returns factory ‖ factoryData, or nil when empty.
func (f *FactoryArgs) InitCode() []byte {
	if f.IsEmpty() {
		return nil
	}

	out := make([]byte, 0, common.AddressLength+len(f.FactoryData))
	out = append(out, f.Factory.Bytes()...)
	out = append(out, f.FactoryData...)

	return out
}

// GasOverride replaces the bundler's call gas estimate.
type GasOverride struct {
	CallGasLimit *big.Int
}

type SmartAccount interface {
	Address() common.Address
	// CanCreateAccount is false when a supplied address differs from the
	// one the factory would deploy.
	CanCreateAccount() bool
	IsDeployed(ctx context.Context) (bool, error)

	EncodeCalls(calls []Call) ([]byte, error)
	GetFactoryArgs(ctx context.Context) (*FactoryArgs, error)
	GetNonce(ctx context.Context) (*big.Int, error)

	Sign(ctx context.Context, hash common.Hash) ([]byte, error)
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
	SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)
	SignUserOperation(ctx context.Context, op *userop.UserOperation) ([]byte, error)
	UserOperationHash(ctx context.Context, op *userop.UserOperation) (common.Hash, error)
	GetStubSignature(ctx context.Context) ([]byte, error)

	// EstimateGas returns nil when no override applies.
	EstimateGas(ctx context.Context, op *userop.UserOperation) (*GasOverride, error)
}
