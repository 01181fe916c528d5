package account

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserOperationFromFlags(t *testing.T) {
	cmd := newUserOperationHash(nil)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--sender", "0x1111111111111111111111111111111111111111",
		"--nonce", "0x2a",
		"--call-data", "0xb61d27f6",
		"--call-gas-limit", "125000",
		"--max-fee-per-gas", "0x3b9aca00",
	}))

	op, err := userOperationFromFlags(cmd.Flags())
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), op.Sender)
	assert.Equal(t, big.NewInt(42), op.Nonce)
	assert.Equal(t, []byte{0xb6, 0x1d, 0x27, 0xf6}, op.CallData)
	assert.Equal(t, big.NewInt(125000), op.CallGasLimit)
	assert.Equal(t, big.NewInt(1_000_000_000), op.MaxFeePerGas)
	assert.Equal(t, 0, op.PreVerificationGas.Sign())
	assert.Empty(t, op.InitCode)
}

func TestUserOperationFromFlagsDefaultsNonce(t *testing.T) {
	cmd := newUserOperationHash(nil)
	require.NoError(t, cmd.Flags().Parse(nil))

	op, err := userOperationFromFlags(cmd.Flags())
	require.NoError(t, err)

	assert.Nil(t, op.Nonce)
	assert.Equal(t, common.Address{}, op.Sender)
}

func TestUserOperationFromFlagsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--sender", "nope"},
		{"--nonce", "-1"},
		{"--call-data", "b61d27f6"},
	} {
		cmd := newUserOperationHash(nil)
		require.NoError(t, cmd.Flags().Parse(args))

		_, err := userOperationFromFlags(cmd.Flags())
		assert.Error(t, err, args)
	}
}
