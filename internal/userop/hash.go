package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var (
	addressType = mustType("address")
	uint256Type = mustType("uint256")
	bytes32Type = mustType("bytes32")

	// sender, nonce, keccak(initCode), keccak(callData), callGasLimit,
	// verificationGasLimit, preVerificationGas, maxFeePerGas,
	// maxPriorityFeePerGas, keccak(paymasterAndData)
	packArgs = abi.Arguments{
		{Type: addressType},
		{Type: uint256Type},
		{Type: bytes32Type},
		{Type: bytes32Type},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: bytes32Type},
	}

	hashArgs = abi.Arguments{
		{Type: bytes32Type},
		{Type: addressType},
		{Type: uint256Type},
	}
)

// Pack ABI-encodes op for hashing. The signature is never part of it.
func Pack(op *UserOperation) ([]byte, error) {
	if op == nil {
		return nil, errors.New("user operation is nil")
	}

	packed, err := packArgs.Pack(
		op.Sender,
		zeroIfNil(op.Nonce),
		crypto.Keccak256Hash(op.InitCode),
		crypto.Keccak256Hash(op.CallData),
		zeroIfNil(op.CallGasLimit),
		zeroIfNil(op.VerificationGasLimit),
		zeroIfNil(op.PreVerificationGas),
		zeroIfNil(op.MaxFeePerGas),
		zeroIfNil(op.MaxPriorityFeePerGas),
		crypto.Keccak256Hash(op.PaymasterAndData),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack user operation")
	}

	return packed, nil
}

// Hash returns keccak256(abi.encode(keccak256(pack(op)), entryPoint, chainID)).
func Hash(op *UserOperation, entryPoint common.Address, chainID *big.Int) (common.Hash, error) {
	if chainID == nil {
		return common.Hash{}, errors.New("chain id is required")
	}

	packed, err := Pack(op)
	if err != nil {
		return common.Hash{}, err
	}

	encoded, err := hashArgs.Pack(crypto.Keccak256Hash(packed), entryPoint, chainID)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to encode user operation hash input")
	}

	return crypto.Keccak256Hash(encoded), nil
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}

	return typ
}
