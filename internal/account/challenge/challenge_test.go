package challenge_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/account/challenge"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/test"
)

var account = common.HexToAddress("0x2222222222222222222222222222222222222222")

func manualWrap(hash common.Hash, meta challenge.Metadata) common.Hash {
	domainType := crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))

	var domain []byte
	domain = append(domain, domainType...)
	domain = append(domain, crypto.Keccak256([]byte(meta.Name))...)
	domain = append(domain, crypto.Keccak256([]byte(meta.Version))...)
	domain = append(domain, common.LeftPadBytes(meta.ChainID.Bytes(), 32)...)
	domain = append(domain, common.LeftPadBytes(meta.VerifyingContract.Bytes(), 32)...)

	var message []byte
	message = append(message, crypto.Keccak256([]byte("Kernel(bytes32 hash)"))...)
	message = append(message, hash.Bytes()...)

	var digest []byte
	digest = append(digest, 0x19, 0x01)
	digest = append(digest, crypto.Keccak256(domain)...)
	digest = append(digest, crypto.Keccak256(message)...)

	return crypto.Keccak256Hash(digest)
}

func TestWrapMatchesKernelDomain(t *testing.T) {
	hash := crypto.Keccak256Hash([]byte("hello"))
	meta := challenge.DefaultMetadata(big.NewInt(8453), account)

	wrapped, err := challenge.Wrap(hash, meta)
	require.NoError(t, err)
	assert.Equal(t, manualWrap(hash, meta), wrapped)
	assert.NotEqual(t, hash, wrapped)
}

func TestWrapIsAccountAndChainBound(t *testing.T) {
	hash := crypto.Keccak256Hash([]byte("hello"))

	base, err := challenge.Wrap(hash, challenge.DefaultMetadata(big.NewInt(1), account))
	require.NoError(t, err)

	otherChain, err := challenge.Wrap(hash, challenge.DefaultMetadata(big.NewInt(10), account))
	require.NoError(t, err)
	assert.NotEqual(t, base, otherChain)

	otherAccount, err := challenge.Wrap(hash, challenge.DefaultMetadata(big.NewInt(1), common.HexToAddress("0x3333333333333333333333333333333333333333")))
	require.NoError(t, err)
	assert.NotEqual(t, base, otherAccount)
}

func TestWrapRequiresChainID(t *testing.T) {
	_, err := challenge.Wrap(common.Hash{}, challenge.Metadata{Name: "Kernel", Version: "0.2.4"})
	require.Error(t, err)
}

func TestFetchUndeployedUsesDefaultDomain(t *testing.T) {
	chain := test.NewTestChain(t, 137)

	meta, err := challenge.Fetch(t.Context(), chain, account, false)
	require.NoError(t, err)
	assert.Equal(t, challenge.DefaultMetadata(big.NewInt(137), account), meta)
	assert.Equal(t, 0, chain.Calls(test.MethodCallContract))
}

func TestFetchDeployedReadsDomain(t *testing.T) {
	chain := test.NewTestChain(t, 137)
	chain.OnCall(func(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
		assert.Equal(t, account, *msg.To)
		assert.Equal(t, kernel.AccountABI.Methods["eip712Domain"].ID, msg.Data)

		return kernel.AccountABI.Methods["eip712Domain"].Outputs.Pack(
			[1]byte{0x0f}, "Kernel", "0.2.5", big.NewInt(137), account, [32]byte{}, []*big.Int{},
		)
	})

	meta, err := challenge.Fetch(t.Context(), chain, account, true)
	require.NoError(t, err)
	assert.Equal(t, "Kernel", meta.Name)
	assert.Equal(t, "0.2.5", meta.Version)
	assert.Equal(t, int64(137), meta.ChainID.Int64())
	assert.Equal(t, account, meta.VerifyingContract)
}

func TestFetchDeployedPropagatesFailure(t *testing.T) {
	chain := test.NewTestChain(t, 137)
	chain.OnCall(func(context.Context, ethereum.CallMsg) ([]byte, error) {
		return nil, errors.New("node unavailable")
	})

	_, err := challenge.Fetch(t.Context(), chain, account, true)
	require.ErrorContains(t, err, "node unavailable")
}
