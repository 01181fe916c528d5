package account

import (
	"bytes"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/account/challenge"
	"github/frak-labs/go-smart-wallet/internal/account/resolver"
	"github/frak-labs/go-smart-wallet/internal/account/state"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/registry"
	"github/frak-labs/go-smart-wallet/internal/rpc"
	"github/frak-labs/go-smart-wallet/internal/userop"
	"github/frak-labs/go-smart-wallet/internal/util"
)

const (
	gasMarginNumerator   = 125
	gasMarginDenominator = 100
)

var (
	ErrNoCalls                    = errors.New("at least one call is required")
	ErrRecoveryCannotSignMessages = errors.New("recovery account doesn't support message signature")
)

// Options is the bundle every constructor assembles for New.
type Options struct {
	// Kind labels signature metrics, one of the backend.Kind* constants.
	Kind             string
	GetSignature     backend.SignatureFunc
	StubSignature    []byte
	GenerateInitCode resolver.InitCodeFunc

	PreDeterminedAddress *common.Address
	TrustPreDetermined   bool

	// SenderAddress defaults to the entry point's getSenderAddress.
	SenderAddress resolver.SenderAddressFunc
	// ModeSelector defaults to ModeSudo.
	ModeSelector []byte
	// RefuseMessages makes Sign, SignMessage and SignTypedData fail.
	RefuseMessages bool

	Metrics *metrics.Service
}

type smartAccount struct {
	client    rpc.ChainClient
	addrs     registry.Addresses
	opts      Options
	cache     *state.Cache
	address   common.Address
	canCreate bool
	log       zerolog.Logger
}

var _ SmartAccount = (*smartAccount)(nil)

// New resolves the account address and returns the account. Resolution
// failures are returned, no account is built without an address.
func New(ctx context.Context, client rpc.ChainClient, addrs registry.Addresses, opts Options) (SmartAccount, error) {
	if client == nil {
		return nil, errors.New("chain client is required")
	}
	if opts.GetSignature == nil {
		return nil, errors.New("signature function is required")
	}
	if opts.GenerateInitCode == nil {
		return nil, errors.New("init code generator is required")
	}
	if opts.SenderAddress == nil {
		opts.SenderAddress = resolver.EntryPointSenderAddress(client, addrs.EntryPoint)
	}
	if opts.ModeSelector == nil {
		opts.ModeSelector = ModeSudo
	}

	res, err := resolver.Resolve(ctx, resolver.Request{
		Factory:              addrs.Factory,
		GenerateInitCode:     opts.GenerateInitCode,
		SenderAddress:        opts.SenderAddress,
		PreDeterminedAddress: opts.PreDeterminedAddress,
		TrustPreDetermined:   opts.TrustPreDetermined,
	})
	if err != nil {
		return nil, err
	}

	acc := &smartAccount{
		client:    client,
		addrs:     addrs,
		opts:      opts,
		cache:     state.New(client, opts.Metrics),
		address:   res.Address,
		canCreate: res.CanCreateAccount,
	}
	acc.log = util.LogFromContext(ctx).With().
		Str("component", "account").
		Str("kind", opts.Kind).
		Str("account", res.Address.Hex()).
		Logger()

	acc.log.Debug().Bool("can_create_account", res.CanCreateAccount).Msg("Smart account resolved")

	return acc, nil
}

func (a *smartAccount) Address() common.Address {
	return a.address
}

func (a *smartAccount) CanCreateAccount() bool {
	return a.canCreate
}

func (a *smartAccount) IsDeployed(ctx context.Context) (bool, error) {
	return a.cache.IsDeployed(ctx, a.address)
}

// EncodeCalls wraps a single call in execute, unless it already targets one
// of this account's execution functions, and several calls in executeBatch.
func (a *smartAccount) EncodeCalls(calls []Call) ([]byte, error) {
	switch len(calls) {
	case 0:
		return nil, ErrNoCalls
	case 1:
		call := calls[0]
		if call.To == a.address && kernel.IsExecuteCall(call.Data) {
			return call.Data, nil
		}

		return kernel.EncodeExecute(call)
	default:
		return kernel.EncodeExecuteBatch(calls)
	}
}

func (a *smartAccount) GetFactoryArgs(ctx context.Context) (*FactoryArgs, error) {
	if !a.canCreate {
		return &FactoryArgs{}, nil
	}

	deployed, err := a.cache.IsDeployed(ctx, a.address)
	if err != nil {
		return nil, err
	}
	if deployed {
		return &FactoryArgs{}, nil
	}

	factoryData, err := a.opts.GenerateInitCode(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate init code")
	}

	factory := a.addrs.Factory

	return &FactoryArgs{Factory: &factory, FactoryData: factoryData}, nil
}

// GetNonce reads the key 0 nonce of the account from the entry point.
func (a *smartAccount) GetNonce(ctx context.Context) (*big.Int, error) {
	data, err := kernel.EncodeGetNonce(a.address, nil)
	if err != nil {
		return nil, err
	}

	entryPoint := a.addrs.EntryPoint

	ret, err := a.client.CallContract(ctx, ethereum.CallMsg{To: &entryPoint, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read nonce of %s", a.address.Hex())
	}

	return kernel.DecodeGetNonce(ret)
}

func (a *smartAccount) Sign(ctx context.Context, hash common.Hash) ([]byte, error) {
	return a.signWrapped(ctx, hash)
}

func (a *smartAccount) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return a.signWrapped(ctx, common.BytesToHash(accounts.TextHash(message)))
}

func (a *smartAccount) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	if a.opts.RefuseMessages {
		return nil, ErrRecoveryCannotSignMessages
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash typed data")
	}

	return a.signWrapped(ctx, common.BytesToHash(hash))
}

// SignUserOperation signs the entry point hash of op. The hash is already
// bound to the entry point and chain, so it is not wrapped.
func (a *smartAccount) SignUserOperation(ctx context.Context, op *userop.UserOperation) ([]byte, error) {
	if op == nil {
		return nil, errors.New("user operation is nil")
	}

	hash, err := a.UserOperationHash(ctx, op)
	if err != nil {
		return nil, err
	}

	sig, err := a.signature(ctx, hash)
	if err != nil {
		return nil, err
	}

	return a.withMode(sig), nil
}

// UserOperationHash returns the entry point hash of op, defaulting the sender to this account.
func (a *smartAccount) UserOperationHash(ctx context.Context, op *userop.UserOperation) (common.Hash, error) {
	chainID, err := a.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to read chain id")
	}

	hashed := *op
	if hashed.Sender == (common.Address{}) {
		hashed.Sender = a.address
	}
	hashed.Signature = nil

	return userop.Hash(&hashed, a.addrs.EntryPoint, chainID)
}

func (a *smartAccount) GetStubSignature(_ context.Context) ([]byte, error) {
	return a.withMode(a.opts.StubSignature), nil
}

// EstimateGas simulates the call data from and to the account and adds a 25%
// margin. Any simulation failure means no override.
func (a *smartAccount) EstimateGas(ctx context.Context, op *userop.UserOperation) (*GasOverride, error) {
	if op == nil || len(op.CallData) == 0 {
		return nil, nil //nolint:nilnil
	}

	sender := op.Sender
	if sender == (common.Address{}) {
		sender = a.address
	}

	estimate, err := a.client.EstimateGas(ctx, ethereum.CallMsg{From: sender, To: &sender, Data: op.CallData})
	if err != nil {
		a.log.Debug().Err(err).Msg("Call gas estimation failed, keeping bundler defaults")
		return nil, nil //nolint:nilnil
	}

	limit := new(big.Int).SetUint64(estimate)
	limit.Mul(limit, big.NewInt(gasMarginNumerator))
	limit.Div(limit, big.NewInt(gasMarginDenominator))

	return &GasOverride{CallGasLimit: limit}, nil
}

func (a *smartAccount) signWrapped(ctx context.Context, hash common.Hash) ([]byte, error) {
	if a.opts.RefuseMessages {
		return nil, ErrRecoveryCannotSignMessages
	}

	meta, err := a.cache.Metadata(ctx, a.address)
	if err != nil {
		return nil, err
	}

	wrapped, err := challenge.Wrap(hash, meta)
	if err != nil {
		return nil, err
	}

	return a.signature(ctx, wrapped)
}

// signature calls the backend and returns its output untouched.
func (a *smartAccount) signature(ctx context.Context, hash common.Hash) ([]byte, error) {
	sig, err := a.opts.GetSignature(ctx, backend.SignatureRequest{Hash: hash})
	a.opts.Metrics.ObserveSignature(a.opts.Kind, err)

	if err != nil {
		a.log.Debug().Err(err).Str("hash", hash.Hex()).Msg("Signature backend failed")
		return nil, err
	}

	return sig, nil
}

func (a *smartAccount) withMode(sig []byte) []byte {
	return append(bytes.Clone(a.opts.ModeSelector), sig...)
}
