package kernel

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// OperationCall is the plain CALL operation of Kernel's execute.
const OperationCall uint8 = 0

// Call is one call performed by the account. A nil Value means zero.
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// batchCall mirrors the executeBatch tuple so the ABI encoder can map fields by name.
type batchCall struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// EncodeExecute encodes execute(to, value, data, CALL).
func EncodeExecute(call Call) ([]byte, error) {
	data, err := AccountABI.Pack("execute", call.To, valueOrZero(call.Value), bytesOrEmpty(call.Data), OperationCall)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode execute call")
	}

	return data, nil
}

// EncodeExecuteBatch encodes executeBatch(calls), executed in order and atomically.
func EncodeExecuteBatch(calls []Call) ([]byte, error) {
	batch := make([]batchCall, 0, len(calls))
	for _, call := range calls {
		batch = append(batch, batchCall{
			To:    call.To,
			Value: valueOrZero(call.Value),
			Data:  bytesOrEmpty(call.Data),
		})
	}

	data, err := AccountABI.Pack("executeBatch", batch)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode executeBatch call")
	}

	return data, nil
}

// IsExecuteCall reports whether data starts with the selector of one of the
// account's own execution functions.
func IsExecuteCall(data []byte) bool {
	if len(data) < 4 {
		return false
	}

	var selector [4]byte
	copy(selector[:], data[:4])
	_, ok := executeSelectors[selector]

	return ok
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return v
}

func bytesOrEmpty(b []byte) []byte {
	if b == nil {
		return []byte{}
	}

	return b
}
