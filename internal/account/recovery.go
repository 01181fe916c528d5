package account

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/registry"
	"github/frak-labs/go-smart-wallet/internal/rpc"
)

// RecoveryParams describe an existing account taken over by a recovery key.
// The initial passkey is only needed to redeploy an undeployed account.
type RecoveryParams struct {
	AccountAddress         common.Address
	Signer                 *backend.LocalSigner
	InitialAuthenticatorID string
	InitialPubKey          kernel.P256PublicKey
	Settings
}

// NewRecoveryAccount signs user operations with a burner key through the
// recovery validator. It cannot sign messages or typed data.
func NewRecoveryAccount(ctx context.Context, client rpc.ChainClient, addrs registry.Addresses, p RecoveryParams) (SmartAccount, error) {
	if p.AccountAddress == (common.Address{}) {
		return nil, errors.New("recovered account address is required")
	}
	if p.Signer == nil {
		return nil, backend.ErrKeyUnavailable
	}

	address := p.AccountAddress
	idHash := AuthenticatorIDHash(p.InitialAuthenticatorID)

	return New(ctx, client, addrs, Options{
		Kind:                 backend.KindRecovery,
		GetSignature:         backend.Ecdsa(p.Signer),
		StubSignature:        codec.EcdsaStub(),
		GenerateInitCode:     webAuthnInitCode(addrs, idHash, p.InitialPubKey, p.Index),
		PreDeterminedAddress: &address,
		TrustPreDetermined:   true,
		ModeSelector:         ModeRecovery,
		RefuseMessages:       true,
		Metrics:              p.Metrics,
	})
}
