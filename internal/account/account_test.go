package account_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/account/challenge"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
	"github/frak-labs/go-smart-wallet/internal/account/resolver"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/registry"
	"github/frak-labs/go-smart-wallet/internal/test"
	"github/frak-labs/go-smart-wallet/internal/userop"
)

const chainID = 8453

var (
	addrs        = registry.DefaultAddresses
	ecdsaAddress = common.HexToAddress("0x1111111111111111111111111111111111111111")
	accountAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	otherAddr    = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// recordingProvider records every request and answers with a fixed signature.
type recordingProvider struct {
	mu       sync.Mutex
	requests []backend.SignatureRequest
	sig      []byte
	err      error
}

func (p *recordingProvider) Sign(_ context.Context, req backend.SignatureRequest) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)

	return p.sig, p.err
}

func (p *recordingProvider) last(t *testing.T) backend.SignatureRequest {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	require.NotEmpty(t, p.requests)

	return p.requests[len(p.requests)-1]
}

func fixedSender(addr common.Address) resolver.SenderAddressFunc {
	return func(context.Context, common.Address, []byte) (common.Address, error) {
		return addr, nil
	}
}

func mockInitCode(context.Context) ([]byte, error) {
	return common.FromHex("0xdeadbeef"), nil
}

func newAccount(t *testing.T, chain *test.Chain, provider *recordingProvider, opts account.Options) account.SmartAccount {
	t.Helper()

	if opts.GetSignature == nil {
		opts.GetSignature = provider.Sign
	}
	if opts.GenerateInitCode == nil {
		opts.GenerateInitCode = mockInitCode
	}
	if opts.SenderAddress == nil {
		opts.SenderAddress = fixedSender(accountAddr)
	}
	if opts.StubSignature == nil {
		opts.StubSignature = codec.EcdsaStub()
	}
	if opts.Kind == "" {
		opts.Kind = backend.KindEcdsa
	}

	acc, err := account.New(t.Context(), chain, addrs, opts)
	require.NoError(t, err)

	return acc
}

func sampleOp() *userop.UserOperation {
	return &userop.UserOperation{
		Nonce:                big.NewInt(3),
		CallData:             common.FromHex("0xcafe"),
		CallGasLimit:         big.NewInt(100_000),
		VerificationGasLimit: big.NewInt(300_000),
		PreVerificationGas:   big.NewInt(50_000),
		MaxFeePerGas:         big.NewInt(1_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(1_000_000),
	}
}

func TestFactoryArgsBeforeDeployment(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{}

	acc := newAccount(t, chain, provider, account.Options{})
	assert.Equal(t, accountAddr, acc.Address())
	assert.True(t, acc.CanCreateAccount())

	args, err := acc.GetFactoryArgs(t.Context())
	require.NoError(t, err)
	require.NotNil(t, args.Factory)
	assert.Equal(t, addrs.Factory, *args.Factory)
	assert.Equal(t, common.FromHex("0xdeadbeef"), args.FactoryData)
	assert.Equal(t, append(addrs.Factory.Bytes(), 0xde, 0xad, 0xbe, 0xef), args.InitCode())
}

func TestEcdsaConstructorFactoryArgs(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{}

	acc, err := account.NewEcdsaAccount(t.Context(), chain, addrs, account.EcdsaParams{
		EcdsaAddress:      ecdsaAddress,
		SignatureProvider: provider.Sign,
		Settings:          account.Settings{SenderAddress: fixedSender(accountAddr)},
	})
	require.NoError(t, err)
	assert.Equal(t, accountAddr, acc.Address())

	expected, err := kernel.EcdsaInitCode(addrs.AccountLogic, addrs.EcdsaValidator, ecdsaAddress, nil)
	require.NoError(t, err)

	args, err := acc.GetFactoryArgs(t.Context())
	require.NoError(t, err)
	require.NotNil(t, args.Factory)
	assert.Equal(t, addrs.Factory, *args.Factory)
	assert.Equal(t, expected, args.FactoryData)
}

func TestPreDeterminedMismatchDisablesCreation(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{}

	acc := newAccount(t, chain, provider, account.Options{PreDeterminedAddress: &otherAddr})
	assert.Equal(t, otherAddr, acc.Address())
	assert.False(t, acc.CanCreateAccount())

	args, err := acc.GetFactoryArgs(t.Context())
	require.NoError(t, err)
	assert.True(t, args.IsEmpty())
	assert.Nil(t, args.FactoryData)
	assert.Equal(t, 0, chain.Calls(test.MethodCodeAt))
}

func TestPreDeterminedMatchKeepsCreation(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{}

	acc := newAccount(t, chain, provider, account.Options{PreDeterminedAddress: &accountAddr})
	assert.True(t, acc.CanCreateAccount())
}

func TestDeployedAccountOmitsFactoryArgs(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	chain.SetCode(accountAddr, []byte{0x60, 0x00})
	provider := &recordingProvider{}

	acc := newAccount(t, chain, provider, account.Options{})

	for range 3 {
		args, err := acc.GetFactoryArgs(t.Context())
		require.NoError(t, err)
		assert.True(t, args.IsEmpty())
		assert.Nil(t, args.InitCode())
	}

	assert.Equal(t, 1, chain.Calls(test.MethodCodeAt))
}

func TestResolutionFailureIsFatal(t *testing.T) {
	chain := test.NewTestChain(t, chainID)

	acc, err := account.New(t.Context(), chain, addrs, account.Options{
		GetSignature:     (&recordingProvider{}).Sign,
		GenerateInitCode: mockInitCode,
		SenderAddress:    fixedSender(common.Address{}),
	})
	require.ErrorIs(t, err, resolver.ErrAccountAddressNotFound)
	assert.Nil(t, acc)
}

func TestNewRequiresSignatureAndInitCode(t *testing.T) {
	chain := test.NewTestChain(t, chainID)

	_, err := account.New(t.Context(), chain, addrs, account.Options{GenerateInitCode: mockInitCode})
	require.Error(t, err)

	_, err = account.New(t.Context(), chain, addrs, account.Options{GetSignature: (&recordingProvider{}).Sign})
	require.Error(t, err)
}

func TestEncodeCalls(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	acc := newAccount(t, chain, &recordingProvider{}, account.Options{})

	inner, err := kernel.EncodeExecute(kernel.Call{To: otherAddr, Value: big.NewInt(1), Data: common.FromHex("0x01")})
	require.NoError(t, err)

	passthrough, err := acc.EncodeCalls([]account.Call{{To: accountAddr, Data: inner}})
	require.NoError(t, err)
	assert.Equal(t, inner, passthrough)

	wrapped, err := acc.EncodeCalls([]account.Call{{To: otherAddr, Data: inner}})
	require.NoError(t, err)
	expectedWrapped, err := kernel.EncodeExecute(kernel.Call{To: otherAddr, Data: inner})
	require.NoError(t, err)
	assert.Equal(t, expectedWrapped, wrapped)

	notExecute, err := acc.EncodeCalls([]account.Call{{To: accountAddr, Data: common.FromHex("0xdeadbeef")}})
	require.NoError(t, err)
	assert.NotEqual(t, common.FromHex("0xdeadbeef"), notExecute)

	c1 := account.Call{To: otherAddr, Data: common.FromHex("0x01")}
	c2 := account.Call{To: ecdsaAddress, Value: big.NewInt(5)}

	batch, err := acc.EncodeCalls([]account.Call{c1, c2})
	require.NoError(t, err)

	single1, err := acc.EncodeCalls([]account.Call{c1})
	require.NoError(t, err)
	single2, err := acc.EncodeCalls([]account.Call{c2})
	require.NoError(t, err)

	assert.NotEqual(t, single1, batch)
	assert.NotEqual(t, single2, batch)
	assert.Equal(t, kernel.AccountABI.Methods["executeBatch"].ID, batch[:4])

	_, err = acc.EncodeCalls(nil)
	require.ErrorIs(t, err, account.ErrNoCalls)
}

func TestGetNonce(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	chain.OnCall(func(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
		assert.Equal(t, addrs.EntryPoint, *msg.To)

		expected, err := kernel.EncodeGetNonce(accountAddr, big.NewInt(0))
		require.NoError(t, err)
		assert.Equal(t, expected, msg.Data)

		return kernel.EntryPointABI.Methods["getNonce"].Outputs.Pack(big.NewInt(42))
	})

	acc := newAccount(t, chain, &recordingProvider{}, account.Options{})

	nonce, err := acc.GetNonce(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(42), nonce.Int64())
}

func TestSignUserOperation(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{sig: common.FromHex("0xc0ffee")}
	acc := newAccount(t, chain, provider, account.Options{})

	op := sampleOp()
	op.Signature = common.FromHex("0x1234")

	sig, err := acc.SignUserOperation(t.Context(), op)
	require.NoError(t, err)
	assert.Equal(t, common.FromHex("0x00000000c0ffee"), sig)

	expectedOp := *sampleOp()
	expectedOp.Sender = accountAddr
	expectedHash, err := userop.Hash(&expectedOp, addrs.EntryPoint, big.NewInt(chainID))
	require.NoError(t, err)

	assert.Equal(t, backend.SignatureRequest{Hash: expectedHash}, provider.last(t))
	assert.Equal(t, common.FromHex("0x1234"), op.Signature)

	hash, err := acc.UserOperationHash(t.Context(), op)
	require.NoError(t, err)
	assert.Equal(t, expectedHash, hash)
}

func TestSignUserOperationKeepsExplicitSender(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{sig: []byte{0x01}}
	acc := newAccount(t, chain, provider, account.Options{})

	op := sampleOp()
	op.Sender = otherAddr

	_, err := acc.SignUserOperation(t.Context(), op)
	require.NoError(t, err)

	expectedHash, err := userop.Hash(op, addrs.EntryPoint, big.NewInt(chainID))
	require.NoError(t, err)
	assert.Equal(t, expectedHash, provider.last(t).Hash)
}

func TestSignWrapsChallenge(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{sig: common.FromHex("0xabcdef")}
	acc := newAccount(t, chain, provider, account.Options{})

	hash := crypto.Keccak256Hash([]byte("payload"))

	sig, err := acc.Sign(t.Context(), hash)
	require.NoError(t, err)
	assert.Equal(t, common.FromHex("0xabcdef"), sig)

	expected, err := challenge.Wrap(hash, challenge.DefaultMetadata(big.NewInt(chainID), accountAddr))
	require.NoError(t, err)
	assert.Equal(t, backend.SignatureRequest{Hash: expected}, provider.last(t))
}

func TestSignMessageUsesEIP191(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{sig: []byte{0x01}}
	acc := newAccount(t, chain, provider, account.Options{})

	_, err := acc.SignMessage(t.Context(), []byte("hello world"))
	require.NoError(t, err)

	expected, err := challenge.Wrap(
		common.BytesToHash(accounts.TextHash([]byte("hello world"))),
		challenge.DefaultMetadata(big.NewInt(chainID), accountAddr),
	)
	require.NoError(t, err)
	assert.Equal(t, expected, provider.last(t).Hash)
}

func TestSignTypedData(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	provider := &recordingProvider{sig: []byte{0x01}}
	acc := newAccount(t, chain, provider, account.Options{})

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {{Name: "name", Type: "string"}},
			"Greeting":     {{Name: "text", Type: "string"}},
		},
		PrimaryType: "Greeting",
		Domain:      apitypes.TypedDataDomain{Name: "Test"},
		Message:     apitypes.TypedDataMessage{"text": "gm"},
	}

	_, err := acc.SignTypedData(t.Context(), typedData)
	require.NoError(t, err)

	raw, _, err := apitypes.TypedDataAndHash(typedData)
	require.NoError(t, err)

	expected, err := challenge.Wrap(common.BytesToHash(raw), challenge.DefaultMetadata(big.NewInt(chainID), accountAddr))
	require.NoError(t, err)
	assert.Equal(t, expected, provider.last(t).Hash)
}

func TestSignFailsFastWhenMetadataUnavailable(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	chain.SetCode(accountAddr, []byte{0x60, 0x00})
	chain.OnCall(func(context.Context, ethereum.CallMsg) ([]byte, error) {
		return nil, errors.New("node unavailable")
	})
	provider := &recordingProvider{sig: []byte{0x01}}
	acc := newAccount(t, chain, provider, account.Options{})

	_, err := acc.Sign(t.Context(), common.Hash{})
	require.ErrorContains(t, err, "node unavailable")
	assert.Empty(t, provider.requests)
}

func TestBackendFailureDoesNotCorruptCache(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	rejected := errors.New("user rejected")
	provider := &recordingProvider{err: rejected}
	acc := newAccount(t, chain, provider, account.Options{})

	_, err := acc.Sign(t.Context(), common.Hash{})
	require.ErrorIs(t, err, rejected)

	_, err = acc.SignUserOperation(t.Context(), sampleOp())
	require.ErrorIs(t, err, rejected)

	provider.err = nil
	provider.sig = []byte{0x02}

	sig, err := acc.Sign(t.Context(), common.Hash{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, sig)
	assert.Equal(t, 1, chain.Calls(test.MethodCodeAt))
}

func TestStubSignature(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	acc := newAccount(t, chain, &recordingProvider{}, account.Options{})

	stub, err := acc.GetStubSignature(t.Context())
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0, 0, 0, 0}, codec.EcdsaStub()...), stub)
}

func TestEcdsaStubMatchesRealSignatureLength(t *testing.T) {
	chain := test.NewTestChain(t, chainID)

	signer, err := backend.NewLocalSignerFromHex("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)

	acc, err := account.NewEcdsaAccount(t.Context(), chain, addrs, account.EcdsaParams{
		EcdsaAddress:      signer.Address(),
		SignatureProvider: backend.Ecdsa(signer),
		Settings:          account.Settings{SenderAddress: fixedSender(accountAddr)},
	})
	require.NoError(t, err)

	realSig, err := acc.SignUserOperation(t.Context(), sampleOp())
	require.NoError(t, err)

	stub, err := acc.GetStubSignature(t.Context())
	require.NoError(t, err)

	assert.Len(t, realSig, len(stub))
	assert.Equal(t, []byte{0, 0, 0, 0}, realSig[:4])
}

func TestEstimateGas(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	chain.OnEstimateGas(func(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
		assert.Equal(t, accountAddr, msg.From)
		assert.Equal(t, accountAddr, *msg.To)
		assert.Equal(t, common.FromHex("0xcafe"), msg.Data)

		return 100_000, nil
	})
	acc := newAccount(t, chain, &recordingProvider{}, account.Options{})

	override, err := acc.EstimateGas(t.Context(), sampleOp())
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.Equal(t, int64(125_000), override.CallGasLimit.Int64())
}

func TestEstimateGasFailureMeansNoOverride(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	chain.OnEstimateGas(func(context.Context, ethereum.CallMsg) (uint64, error) {
		return 0, errors.New("execution reverted")
	})
	acc := newAccount(t, chain, &recordingProvider{}, account.Options{})

	override, err := acc.EstimateGas(t.Context(), sampleOp())
	require.NoError(t, err)
	assert.Nil(t, override)

	op := sampleOp()
	op.CallData = nil

	override, err = acc.EstimateGas(t.Context(), op)
	require.NoError(t, err)
	assert.Nil(t, override)
	assert.Equal(t, 1, chain.Calls(test.MethodEstimateGas))
}

func TestWrapERC6492(t *testing.T) {
	chain := test.NewTestChain(t, chainID)
	acc := newAccount(t, chain, &recordingProvider{}, account.Options{})

	sig := common.FromHex("0xaabbcc")

	wrapped, err := account.WrapERC6492(t.Context(), acc, sig)
	require.NoError(t, err)
	require.Greater(t, len(wrapped), 32)
	assert.Equal(t, account.ERC6492MagicSuffix, wrapped[len(wrapped)-32:])

	chain.SetCode(accountAddr, []byte{0x60, 0x00})

	plain, err := account.WrapERC6492(t.Context(), acc, sig)
	require.NoError(t, err)
	assert.Equal(t, sig, plain)
}
