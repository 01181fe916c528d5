// Package backend holds the signature backends of a smart account. Every
// backend is reduced to a SignatureFunc, the slot the account core signs through.
package backend

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	KindWebAuthn = "webauthn"
	KindEcdsa    = "ecdsa"
	KindPaired   = "paired"
	KindRecovery = "recovery"
)

var (
	ErrCeremonyCancelled = errors.New("signing ceremony cancelled")
	ErrKeyUnavailable    = errors.New("signing key unavailable")
)

// SignatureRequest is what the account core hands to a backend.
type SignatureRequest struct {
	Hash common.Hash
}

// SignatureFunc produces the validator-specific signature of req.Hash, without
// the mode selector.
type SignatureFunc func(ctx context.Context, req SignatureRequest) ([]byte, error)

func cancelled(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return errors.Wrap(ErrCeremonyCancelled, err.Error())
	}

	return err
}
