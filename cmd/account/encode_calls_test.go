package account

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalls(t *testing.T) {
	calls, err := parseCalls([]string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222,0x10,0xdeadbeef",
		"0x3333333333333333333333333333333333333333,42",
	})
	require.NoError(t, err)
	require.Len(t, calls, 3)

	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), calls[0].To)
	assert.Equal(t, 0, calls[0].Value.Sign())
	assert.Empty(t, calls[0].Data)

	assert.Equal(t, big.NewInt(16), calls[1].Value)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, calls[1].Data)

	assert.Equal(t, big.NewInt(42), calls[2].Value)
}

func TestParseCallsInvalid(t *testing.T) {
	for _, arg := range []string{
		"not-an-address",
		"0x1111111111111111111111111111111111111111,nope",
		"0x1111111111111111111111111111111111111111,1,0xzz",
		"0x1111111111111111111111111111111111111111,1,0x,extra",
	} {
		_, err := parseCalls([]string{arg})
		assert.Error(t, err, arg)
	}
}
