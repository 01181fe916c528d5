package api

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/registry"
)

const (
	AccountTypeWebAuthn = "webauthn"
	AccountTypeEcdsa    = "ecdsa"
)

var ErrUnknownAccountType = errors.New("unknown account type")

// AccountRequest describes the signer an account is resolved from. The server
// holds no key material, accounts it builds can't sign.
type AccountRequest struct {
	Type string

	AuthenticatorID string
	PubKey          kernel.P256PublicKey

	Owner common.Address

	Index   *big.Int
	Address *common.Address
}

// ChainID is the configured chain id, or the one reported by the node.
func (s *Server) ChainID(ctx context.Context) (uint64, error) {
	if s.Config.Chain.ChainID != 0 {
		return s.Config.Chain.ChainID, nil
	}

	id, err := s.Chain.ChainID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read chain id")
	}

	return id.Uint64(), nil
}

// Addresses returns the contract addresses of the served chain.
func (s *Server) Addresses(ctx context.Context) (registry.Addresses, uint64, error) {
	chainID, err := s.ChainID(ctx)
	if err != nil {
		return registry.Addresses{}, 0, err
	}

	return s.Registry.ForChain(chainID), chainID, nil
}

// ResolveAccount builds the smart account described by req.
//
//nolint:ireturn // account.SmartAccount is the account abstraction
func (s *Server) ResolveAccount(ctx context.Context, req AccountRequest) (account.SmartAccount, error) {
	addrs, chainID, err := s.Addresses(ctx)
	if err != nil {
		return nil, err
	}

	settings := account.Settings{
		Index:   req.Index,
		RIP7212: s.Registry.IsRIP7212Supported(chainID),
		Metrics: s.Metrics,
	}

	switch req.Type {
	case AccountTypeWebAuthn:
		return account.NewWebAuthnAccount(ctx, s.Chain, addrs, account.WebAuthnParams{
			AuthenticatorID:      req.AuthenticatorID,
			PubKey:               req.PubKey,
			PreDeterminedAddress: req.Address,
			Settings:             settings,
		})
	case AccountTypeEcdsa:
		return account.NewEcdsaAccount(ctx, s.Chain, addrs, account.EcdsaParams{
			EcdsaAddress:         req.Owner,
			SignatureProvider:    backend.Ecdsa(nil),
			PreDeterminedAddress: req.Address,
			Settings:             settings,
		})
	default:
		return nil, errors.Wrap(ErrUnknownAccountType, req.Type)
	}
}
