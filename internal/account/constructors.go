package account

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
	"github/frak-labs/go-smart-wallet/internal/account/resolver"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/registry"
	"github/frak-labs/go-smart-wallet/internal/rpc"
)

// Settings are accepted by every constructor.
type Settings struct {
	// Index selects one of several accounts of the same signer, nil means 0.
	Index *big.Int
	// RIP7212 selects the P-256 precompile verifier for WebAuthn signatures.
	RIP7212 bool
	// SenderAddress overrides the entry point address resolution.
	SenderAddress resolver.SenderAddressFunc
	Metrics       *metrics.Service
}

type WebAuthnParams struct {
	AuthenticatorID      string
	PubKey               kernel.P256PublicKey
	Authenticator        backend.Authenticator
	PreDeterminedAddress *common.Address
	Settings
}

type PairedParams struct {
	AuthenticatorID      string
	PubKey               kernel.P256PublicKey
	Pairing              backend.PairingClient
	PreDeterminedAddress *common.Address
	Settings
}

type EcdsaParams struct {
	EcdsaAddress         common.Address
	SignatureProvider    backend.SignatureFunc
	PreDeterminedAddress *common.Address
	Settings
}

// GenericWebAuthnParams configures a WebAuthn account against any Kernel
// deployment. Zero addresses fall back to registry.DefaultAddresses.
type GenericWebAuthnParams struct {
	EntryPoint        common.Address
	Factory           common.Address
	AccountLogic      common.Address
	WebAuthnValidator common.Address

	AuthenticatorID string
	PubKey          kernel.P256PublicKey
	Authenticator   backend.Authenticator
	// DeployedAddress is trusted as is, without any chain read.
	DeployedAddress *common.Address
	Settings
}

// ErrAuthenticatorIDRequired is returned by the WebAuthn constructors: the
// validator keys both the enable data and every signature on its hash.
var ErrAuthenticatorIDRequired = errors.New("authenticator id is required")

// AuthenticatorIDHash is the key identifier the WebAuthn validator stores,
// keccak256 of the credential id.
func AuthenticatorIDHash(authenticatorID string) common.Hash {
	return crypto.Keccak256Hash([]byte(authenticatorID))
}

func NewWebAuthnAccount(ctx context.Context, client rpc.ChainClient, addrs registry.Addresses, p WebAuthnParams) (SmartAccount, error) {
	if p.AuthenticatorID == "" {
		return nil, ErrAuthenticatorIDRequired
	}

	idHash := AuthenticatorIDHash(p.AuthenticatorID)

	return New(ctx, client, addrs, Options{
		Kind:                 backend.KindWebAuthn,
		GetSignature:         backend.WebAuthn(p.Authenticator, p.RIP7212, idHash),
		StubSignature:        codec.WebAuthnStub(p.RIP7212, idHash),
		GenerateInitCode:     webAuthnInitCode(addrs, idHash, p.PubKey, p.Index),
		PreDeterminedAddress: p.PreDeterminedAddress,
		SenderAddress:        p.SenderAddress,
		Metrics:              p.Metrics,
	})
}

// NewPairedAccount builds the WebAuthn account of another device. Signatures
// come from that device through the pairing transport.
func NewPairedAccount(ctx context.Context, client rpc.ChainClient, addrs registry.Addresses, p PairedParams) (SmartAccount, error) {
	if p.AuthenticatorID == "" {
		return nil, ErrAuthenticatorIDRequired
	}

	idHash := AuthenticatorIDHash(p.AuthenticatorID)

	return New(ctx, client, addrs, Options{
		Kind:                 backend.KindPaired,
		GetSignature:         backend.Paired(p.Pairing),
		StubSignature:        codec.WebAuthnStub(p.RIP7212, idHash),
		GenerateInitCode:     webAuthnInitCode(addrs, idHash, p.PubKey, p.Index),
		PreDeterminedAddress: p.PreDeterminedAddress,
		SenderAddress:        p.SenderAddress,
		Metrics:              p.Metrics,
	})
}

// NewEcdsaAccount builds an account owned by EcdsaAddress. SignatureProvider
// is used as the signing slot unchanged.
func NewEcdsaAccount(ctx context.Context, client rpc.ChainClient, addrs registry.Addresses, p EcdsaParams) (SmartAccount, error) {
	if p.EcdsaAddress == (common.Address{}) {
		return nil, errors.New("ecdsa owner address is required")
	}

	initCode := func(context.Context) ([]byte, error) {
		return kernel.EcdsaInitCode(addrs.AccountLogic, addrs.EcdsaValidator, p.EcdsaAddress, p.Index)
	}

	return New(ctx, client, addrs, Options{
		Kind:                 backend.KindEcdsa,
		GetSignature:         p.SignatureProvider,
		StubSignature:        codec.EcdsaStub(),
		GenerateInitCode:     initCode,
		PreDeterminedAddress: p.PreDeterminedAddress,
		SenderAddress:        p.SenderAddress,
		Metrics:              p.Metrics,
	})
}

func NewGenericWebAuthnAccount(ctx context.Context, client rpc.ChainClient, p GenericWebAuthnParams) (SmartAccount, error) {
	if p.AuthenticatorID == "" {
		return nil, ErrAuthenticatorIDRequired
	}

	addrs := registry.Addresses{
		EntryPoint:        orDefault(p.EntryPoint, registry.DefaultAddresses.EntryPoint),
		Factory:           orDefault(p.Factory, registry.DefaultAddresses.Factory),
		AccountLogic:      orDefault(p.AccountLogic, registry.DefaultAddresses.AccountLogic),
		WebAuthnValidator: orDefault(p.WebAuthnValidator, registry.DefaultAddresses.WebAuthnValidator),
		EcdsaValidator:    registry.DefaultAddresses.EcdsaValidator,
	}

	idHash := AuthenticatorIDHash(p.AuthenticatorID)

	return New(ctx, client, addrs, Options{
		Kind:                 backend.KindWebAuthn,
		GetSignature:         backend.WebAuthn(p.Authenticator, p.RIP7212, idHash),
		StubSignature:        codec.WebAuthnStub(p.RIP7212, idHash),
		GenerateInitCode:     webAuthnInitCode(addrs, idHash, p.PubKey, p.Index),
		PreDeterminedAddress: p.DeployedAddress,
		TrustPreDetermined:   true,
		SenderAddress:        p.SenderAddress,
		Metrics:              p.Metrics,
	})
}

func webAuthnInitCode(addrs registry.Addresses, idHash common.Hash, pubKey kernel.P256PublicKey, index *big.Int) resolver.InitCodeFunc {
	return func(context.Context) ([]byte, error) {
		return kernel.WebAuthnInitCode(addrs.AccountLogic, addrs.WebAuthnValidator, idHash, pubKey, index)
	}
}

func orDefault(addr common.Address, fallback common.Address) common.Address {
	if addr == (common.Address{}) {
		return fallback
	}

	return addr
}
