package kernel

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

// P256PublicKey is an uncompressed secp256r1 public key.
type P256PublicKey struct {
	X *big.Int
	Y *big.Int
}

// Bytes returns x ‖ y, each left-padded to 32 bytes.
func (k P256PublicKey) Bytes() []byte {
	out := make([]byte, 0, 64) //nolint:mnd
	out = append(out, math.U256Bytes(new(big.Int).Set(k.X))...)
	out = append(out, math.U256Bytes(new(big.Int).Set(k.Y))...)

	return out
}

// EncodeInitialize encodes initialize(validator, enableData).
func EncodeInitialize(validator common.Address, enableData []byte) ([]byte, error) {
	data, err := AccountABI.Pack("initialize", validator, bytesOrEmpty(enableData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode initialize call")
	}

	return data, nil
}

// EncodeCreateAccount encodes the factory's createAccount(implementation, initData, index).
func EncodeCreateAccount(implementation common.Address, initData []byte, index *big.Int) ([]byte, error) {
	data, err := FactoryABI.Pack("createAccount", implementation, bytesOrEmpty(initData), valueOrZero(index))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode createAccount call")
	}

	return data, nil
}

// WebAuthnInitCode returns the factory calldata deploying an account whose
// default validator is the WebAuthn validator enabled for the given passkey.
// The enable data is authenticatorIdHash ‖ x ‖ y.
func WebAuthnInitCode(
	accountLogic common.Address,
	validator common.Address,
	authenticatorIDHash common.Hash,
	pubKey P256PublicKey,
	index *big.Int,
) ([]byte, error) {
	if pubKey.X == nil || pubKey.Y == nil {
		return nil, errors.New("signer public key is required")
	}

	enableData := make([]byte, 0, common.HashLength+64) //nolint:mnd
	enableData = append(enableData, authenticatorIDHash.Bytes()...)
	enableData = append(enableData, pubKey.Bytes()...)

	return initCode(accountLogic, validator, enableData, index)
}

// EcdsaInitCode returns the factory calldata deploying an account owned by an
// ECDSA key through the ECDSA validator. The enable data is the owner address.
func EcdsaInitCode(accountLogic common.Address, validator common.Address, owner common.Address, index *big.Int) ([]byte, error) {
	return initCode(accountLogic, validator, owner.Bytes(), index)
}

func initCode(accountLogic common.Address, validator common.Address, enableData []byte, index *big.Int) ([]byte, error) {
	initData, err := EncodeInitialize(validator, enableData)
	if err != nil {
		return nil, err
	}

	return EncodeCreateAccount(accountLogic, initData, index)
}
