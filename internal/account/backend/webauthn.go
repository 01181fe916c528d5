package backend

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
)

// Assertion is the outcome of a WebAuthn get() ceremony.
type Assertion struct {
	AuthenticatorData []byte
	ClientDataJSON    []byte
	// ChallengeOffset is the index of `"challenge":"` in ClientDataJSON.
	ChallengeOffset uint64
	R               *big.Int
	S               *big.Int
}

// Authenticator runs a passkey ceremony over challenge.
type Authenticator interface {
	GetAssertion(ctx context.Context, challenge []byte) (*Assertion, error)
}

// WebAuthn signs through a local passkey and encodes the assertion for the
// WebAuthn validator.
func WebAuthn(auth Authenticator, rip7212 bool, authenticatorIDHash common.Hash) SignatureFunc {
	return func(ctx context.Context, req SignatureRequest) ([]byte, error) {
		if auth == nil {
			return nil, ErrKeyUnavailable
		}

		assertion, err := auth.GetAssertion(ctx, req.Hash.Bytes())
		if err != nil {
			return nil, cancelled(ctx, err)
		}

		return EncodeAssertion(assertion, rip7212, authenticatorIDHash)
	}
}

func EncodeAssertion(assertion *Assertion, rip7212 bool, authenticatorIDHash common.Hash) ([]byte, error) {
	if assertion == nil || assertion.R == nil || assertion.S == nil {
		return nil, errors.New("incomplete webauthn assertion")
	}

	r, overflow := uint256.FromBig(assertion.R)
	if overflow || assertion.R.Sign() < 0 {
		return nil, errors.New("assertion r does not fit in uint256")
	}

	s, overflow := uint256.FromBig(assertion.S)
	if overflow || assertion.S.Sign() < 0 {
		return nil, errors.New("assertion s does not fit in uint256")
	}

	return codec.Encode(codec.Parts{
		RIP7212:             rip7212,
		AuthenticatorIDHash: authenticatorIDHash,
		ChallengeOffset:     uint256.NewInt(assertion.ChallengeOffset),
		R:                   r,
		S:                   s,
		AuthenticatorData:   assertion.AuthenticatorData,
		ClientData:          assertion.ClientDataJSON,
	})
}
