package kernel

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// EIP712Domain is the ERC-5267 eip712Domain() view of an account.
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

func EncodeEIP712Domain() ([]byte, error) {
	data, err := AccountABI.Pack("eip712Domain")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode eip712Domain call")
	}

	return data, nil
}

func DecodeEIP712Domain(ret []byte) (*EIP712Domain, error) {
	values, err := AccountABI.Unpack("eip712Domain", ret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode eip712Domain result")
	}

	//nolint:mnd // fields, name, version, chainId, verifyingContract, salt, extensions
	if len(values) != 7 {
		return nil, errors.Errorf("unexpected eip712Domain result length %d", len(values))
	}

	name, okName := values[1].(string)
	version, okVersion := values[2].(string)
	chainID, okChainID := values[3].(*big.Int)
	verifyingContract, okContract := values[4].(common.Address)
	if !okName || !okVersion || !okChainID || !okContract {
		return nil, errors.New("unexpected eip712Domain result types")
	}

	return &EIP712Domain{
		Name:              name,
		Version:           version,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}, nil
}
