package backend

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// LocalSigner holds a secp256k1 key, typically a burner key.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewLocalSigner(key *ecdsa.PrivateKey) (*LocalSigner, error) {
	if key == nil {
		return nil, ErrKeyUnavailable
	}

	return &LocalSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewLocalSignerFromHex parses a hex private key, with or without 0x prefix.
func NewLocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	if len(hexKey) >= 2 && hexKey[0] == '0' && (hexKey[1] == 'x' || hexKey[1] == 'X') {
		hexKey = hexKey[2:]
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(ErrKeyUnavailable, err.Error())
	}

	return NewLocalSigner(key)
}

func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignMessage signs the EIP-191 personal message hash of message. The
// recovery id is shifted to 27/28.
func (s *LocalSigner) SignMessage(message []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}

	sig[crypto.RecoveryIDOffset] += 27

	return sig, nil
}

// Ecdsa signs req.Hash as a raw EIP-191 message, the layout the Kernel ECDSA
// validator recovers the owner from.
func Ecdsa(signer *LocalSigner) SignatureFunc {
	return func(ctx context.Context, req SignatureRequest) ([]byte, error) {
		if signer == nil {
			return nil, ErrKeyUnavailable
		}
		if err := ctx.Err(); err != nil {
			return nil, cancelled(ctx, err)
		}

		return signer.SignMessage(req.Hash.Bytes())
	}
}
