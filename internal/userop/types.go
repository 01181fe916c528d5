package userop

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// UserOperation is an ERC-4337 v0.6 user operation.
// A zero Sender means "the account building the operation".
type UserOperation struct {
	Sender               common.Address
	Nonce                *big.Int
	InitCode             []byte
	CallData             []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
	Signature            []byte
}

// jsonUserOperation is the bundler RPC representation.
type jsonUserOperation struct {
	Sender               common.Address `json:"sender"`
	Nonce                *hexutil.Big   `json:"nonce"`
	InitCode             hexutil.Bytes  `json:"initCode"`
	CallData             hexutil.Bytes  `json:"callData"`
	CallGasLimit         *hexutil.Big   `json:"callGasLimit"`
	VerificationGasLimit *hexutil.Big   `json:"verificationGasLimit"`
	PreVerificationGas   *hexutil.Big   `json:"preVerificationGas"`
	MaxFeePerGas         *hexutil.Big   `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big   `json:"maxPriorityFeePerGas"`
	PaymasterAndData     hexutil.Bytes  `json:"paymasterAndData"`
	Signature            hexutil.Bytes  `json:"signature"`
}

func (op UserOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonUserOperation{
		Sender:               op.Sender,
		Nonce:                (*hexutil.Big)(zeroIfNil(op.Nonce)),
		InitCode:             op.InitCode,
		CallData:             op.CallData,
		CallGasLimit:         (*hexutil.Big)(zeroIfNil(op.CallGasLimit)),
		VerificationGasLimit: (*hexutil.Big)(zeroIfNil(op.VerificationGasLimit)),
		PreVerificationGas:   (*hexutil.Big)(zeroIfNil(op.PreVerificationGas)),
		MaxFeePerGas:         (*hexutil.Big)(zeroIfNil(op.MaxFeePerGas)),
		MaxPriorityFeePerGas: (*hexutil.Big)(zeroIfNil(op.MaxPriorityFeePerGas)),
		PaymasterAndData:     op.PaymasterAndData,
		Signature:            op.Signature,
	})
}

func (op *UserOperation) UnmarshalJSON(data []byte) error {
	var dec jsonUserOperation
	if err := json.Unmarshal(data, &dec); err != nil {
		return errors.Wrap(err, "failed to decode user operation")
	}

	*op = UserOperation{
		Sender:               dec.Sender,
		Nonce:                (*big.Int)(dec.Nonce),
		InitCode:             dec.InitCode,
		CallData:             dec.CallData,
		CallGasLimit:         (*big.Int)(dec.CallGasLimit),
		VerificationGasLimit: (*big.Int)(dec.VerificationGasLimit),
		PreVerificationGas:   (*big.Int)(dec.PreVerificationGas),
		MaxFeePerGas:         (*big.Int)(dec.MaxFeePerGas),
		MaxPriorityFeePerGas: (*big.Int)(dec.MaxPriorityFeePerGas),
		PaymasterAndData:     dec.PaymasterAndData,
		Signature:            dec.Signature,
	}

	return nil
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return v
}
