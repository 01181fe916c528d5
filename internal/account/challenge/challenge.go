// Package challenge binds a raw hash to one Kernel account on one chain
// before it is handed to a signature backend.
package challenge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/rpc"
	"github/frak-labs/go-smart-wallet/internal/util"
)

const (
	DefaultName    = "Kernel"
	DefaultVersion = "0.2.4"

	primaryType = "Kernel"
)

// Metadata is the EIP-712 domain of an account.
type Metadata struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// DefaultMetadata is the domain every Kernel v2 account reports once deployed.
func DefaultMetadata(chainID *big.Int, account common.Address) Metadata {
	return Metadata{
		Name:              DefaultName,
		Version:           DefaultVersion,
		ChainID:           new(big.Int).Set(chainID),
		VerifyingContract: account,
	}
}

// Wrap returns the EIP-712 hash of Kernel(bytes32 hash) under the account domain.
func Wrap(hash common.Hash, meta Metadata) (common.Hash, error) {
	if meta.ChainID == nil {
		return common.Hash{}, errors.New("account metadata has no chain id")
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			primaryType: {
				{Name: "hash", Type: "bytes32"},
			},
		},
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              meta.Name,
			Version:           meta.Version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(meta.ChainID)),
			VerifyingContract: meta.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"hash": hash.Hex(),
		},
	}

	wrapped, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to hash kernel challenge")
	}

	return common.BytesToHash(wrapped), nil
}

// Fetch reads the account domain from eip712Domain(). An account without code
// cannot answer, so its domain is the default one the factory will deploy.
func Fetch(ctx context.Context, client rpc.ChainClient, account common.Address, deployed bool) (Metadata, error) {
	if !deployed {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return Metadata{}, errors.Wrap(err, "failed to read chain id")
		}

		util.LogFromContext(ctx).Debug().Str("account", account.Hex()).Msg("Account not deployed, using default kernel domain")

		return DefaultMetadata(chainID, account), nil
	}

	data, err := kernel.EncodeEIP712Domain()
	if err != nil {
		return Metadata{}, err
	}

	ret, err := client.CallContract(ctx, ethereum.CallMsg{To: &account, Data: data}, nil)
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "failed to read eip712Domain of %s", account.Hex())
	}

	domain, err := kernel.DecodeEIP712Domain(ret)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Name:              domain.Name,
		Version:           domain.Version,
		ChainID:           domain.ChainID,
		VerifyingContract: domain.VerifyingContract,
	}, nil
}
