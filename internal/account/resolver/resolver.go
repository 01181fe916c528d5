// Package resolver computes the counterfactual address of an account.
package resolver

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/rpc"
	"github/frak-labs/go-smart-wallet/internal/util"
)

var (
	ErrAccountAddressNotFound   = errors.New("Account address not found") //nolint:stylecheck
	ErrSenderAddressNotReverted = errors.New("getSenderAddress did not revert")
)

// InitCodeFunc returns the factory calldata deploying the account.
type InitCodeFunc func(ctx context.Context) ([]byte, error)

// SenderAddressFunc maps factory ‖ factoryData to the account it would deploy.
type SenderAddressFunc func(ctx context.Context, factory common.Address, factoryData []byte) (common.Address, error)

type Request struct {
	Factory          common.Address
	GenerateInitCode InitCodeFunc
	SenderAddress    SenderAddressFunc

	// PreDeterminedAddress is returned as is when set.
	PreDeterminedAddress *common.Address
	// TrustPreDetermined skips the chain read entirely for a supplied address.
	TrustPreDetermined bool
}

type Result struct {
	Address          common.Address
	CanCreateAccount bool
}

// Resolve returns the account address and whether the factory may deploy it.
// A supplied address that disagrees with the computed one keeps the supplied
// address but forbids account creation.
func Resolve(ctx context.Context, req Request) (Result, error) {
	log := util.LogFromContext(ctx)

	if req.PreDeterminedAddress != nil {
		log.Warn().Str("account", req.PreDeterminedAddress.Hex()).Msg("Using pre-determined account address, signer match is not verified")

		if req.TrustPreDetermined {
			return Result{Address: *req.PreDeterminedAddress, CanCreateAccount: true}, nil
		}
	}

	if req.GenerateInitCode == nil || req.SenderAddress == nil {
		return Result{}, errors.New("init code generator and sender address resolver are required")
	}

	factoryData, err := req.GenerateInitCode(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to generate init code")
	}

	computed, err := req.SenderAddress(ctx, req.Factory, factoryData)
	if err != nil {
		return Result{}, err
	}
	if computed == (common.Address{}) {
		return Result{}, ErrAccountAddressNotFound
	}

	if req.PreDeterminedAddress == nil {
		return Result{Address: computed, CanCreateAccount: true}, nil
	}

	canCreate := computed == *req.PreDeterminedAddress
	if !canCreate {
		log.Warn().
			Str("account", req.PreDeterminedAddress.Hex()).
			Str("computed", computed.Hex()).
			Msg("Pre-determined account address differs from computed one, account creation disabled")
	}

	return Result{Address: *req.PreDeterminedAddress, CanCreateAccount: canCreate}, nil
}

// EntryPointSenderAddress resolves addresses through the entry point's
// getSenderAddress, which always reverts with SenderAddressResult(address).
func EntryPointSenderAddress(client rpc.ChainClient, entryPoint common.Address) SenderAddressFunc {
	return func(ctx context.Context, factory common.Address, factoryData []byte) (common.Address, error) {
		data, err := kernel.EncodeGetSenderAddress(factory, factoryData)
		if err != nil {
			return common.Address{}, err
		}

		_, err = client.CallContract(ctx, ethereum.CallMsg{To: &entryPoint, Data: data}, nil)
		if err == nil {
			return common.Address{}, ErrSenderAddressNotReverted
		}

		revertData, ok := RevertData(err)
		if !ok {
			return common.Address{}, errors.Wrap(err, "failed to call getSenderAddress")
		}

		sender, err := kernel.DecodeSenderAddressResult(revertData)
		if err != nil {
			return common.Address{}, errors.Wrap(ErrAccountAddressNotFound, err.Error())
		}

		return sender, nil
	}
}

// RevertData extracts the revert payload carried by a JSON-RPC call error.
func RevertData(err error) ([]byte, bool) {
	var dataErr gethrpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}

	switch data := dataErr.ErrorData().(type) {
	case string:
		b, decodeErr := hexutil.Decode(data)
		if decodeErr != nil {
			return nil, false
		}

		return b, true
	case hexutil.Bytes:
		return data, true
	case []byte:
		return data, true
	default:
		return nil, false
	}
}
