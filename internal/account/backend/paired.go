package backend

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// PairingClient forwards a hash to a paired device and waits for its signature.
type PairingClient interface {
	SendSignatureRequest(ctx context.Context, hash common.Hash) ([]byte, error)
}

// Paired holds no key material. The paired device returns an already encoded
// signature, which is passed through; transport errors keep their kind.
func Paired(client PairingClient) SignatureFunc {
	return func(ctx context.Context, req SignatureRequest) ([]byte, error) {
		if client == nil {
			return nil, ErrKeyUnavailable
		}

		return client.SendSignatureRequest(ctx, req.Hash)
	}
}
