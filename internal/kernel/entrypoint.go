package kernel

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ErrNotSenderAddressResult is returned when revert data is not a SenderAddressResult error.
var ErrNotSenderAddressResult = errors.New("revert data is not a SenderAddressResult")

// EncodeGetSenderAddress encodes getSenderAddress(factory ‖ factoryData).
func EncodeGetSenderAddress(factory common.Address, factoryData []byte) ([]byte, error) {
	initCode := make([]byte, 0, common.AddressLength+len(factoryData))
	initCode = append(initCode, factory.Bytes()...)
	initCode = append(initCode, factoryData...)

	data, err := EntryPointABI.Pack("getSenderAddress", initCode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode getSenderAddress call")
	}

	return data, nil
}

// DecodeSenderAddressResult extracts the address from SenderAddressResult(address) revert data.
func DecodeSenderAddressResult(revertData []byte) (common.Address, error) {
	abiErr := EntryPointABI.Errors["SenderAddressResult"]
	if len(revertData) < 4 || !bytes.Equal(revertData[:4], abiErr.ID.Bytes()[:4]) {
		return common.Address{}, ErrNotSenderAddressResult
	}

	values, err := abiErr.Inputs.Unpack(revertData[4:])
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to decode SenderAddressResult")
	}

	sender, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.New("unexpected SenderAddressResult payload")
	}

	return sender, nil
}

// EncodeGetNonce encodes getNonce(sender, key).
func EncodeGetNonce(sender common.Address, key *big.Int) ([]byte, error) {
	data, err := EntryPointABI.Pack("getNonce", sender, valueOrZero(key))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode getNonce call")
	}

	return data, nil
}

func DecodeGetNonce(ret []byte) (*big.Int, error) {
	values, err := EntryPointABI.Unpack("getNonce", ret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode getNonce result")
	}

	nonce, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected getNonce result")
	}

	return nonce, nil
}
