package backend_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var hash = crypto.Keccak256Hash([]byte("user operation"))

type fakeAuthenticator struct {
	challenge []byte
	err       error
}

func (f *fakeAuthenticator) GetAssertion(_ context.Context, challenge []byte) (*backend.Assertion, error) {
	f.challenge = challenge
	if f.err != nil {
		return nil, f.err
	}

	return &backend.Assertion{
		AuthenticatorData: make([]byte, 37),
		ClientDataJSON:    []byte(`{"type":"webauthn.get","challenge":"x"}`),
		ChallengeOffset:   23,
		R:                 big.NewInt(11),
		S:                 big.NewInt(22),
	}, nil
}

type fakePairing struct {
	got common.Hash
	sig []byte
	err error
}

func (f *fakePairing) SendSignatureRequest(_ context.Context, h common.Hash) ([]byte, error) {
	f.got = h
	return f.sig, f.err
}

func TestEcdsaSignsEIP191(t *testing.T) {
	signer, err := backend.NewLocalSignerFromHex("0x" + testKey)
	require.NoError(t, err)

	sig, err := backend.Ecdsa(signer)(t.Context(), backend.SignatureRequest{Hash: hash})
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	raw := append([]byte{}, sig...)
	raw[64] -= 27

	pub, err := crypto.SigToPub(accounts.TextHash(hash.Bytes()), raw)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))
}

func TestEcdsaKeyUnavailable(t *testing.T) {
	_, err := backend.Ecdsa(nil)(t.Context(), backend.SignatureRequest{Hash: hash})
	require.ErrorIs(t, err, backend.ErrKeyUnavailable)

	_, err = backend.NewLocalSignerFromHex("not-a-key")
	require.ErrorIs(t, err, backend.ErrKeyUnavailable)

	_, err = backend.NewLocalSigner(nil)
	require.ErrorIs(t, err, backend.ErrKeyUnavailable)
}

func TestEcdsaCancelled(t *testing.T) {
	signer, err := backend.NewLocalSignerFromHex(testKey)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = backend.Ecdsa(signer)(ctx, backend.SignatureRequest{Hash: hash})
	require.ErrorIs(t, err, backend.ErrCeremonyCancelled)
}

func TestWebAuthnEncodesAssertion(t *testing.T) {
	auth := &fakeAuthenticator{}
	idHash := crypto.Keccak256Hash([]byte("credential"))

	sig, err := backend.WebAuthn(auth, true, idHash)(t.Context(), backend.SignatureRequest{Hash: hash})
	require.NoError(t, err)
	assert.Equal(t, hash.Bytes(), auth.challenge)

	parts, err := codec.Decode(sig)
	require.NoError(t, err)
	assert.True(t, parts.RIP7212)
	assert.Equal(t, idHash, parts.AuthenticatorIDHash)
	assert.Equal(t, uint64(23), parts.ChallengeOffset.Uint64())
	assert.Equal(t, uint64(11), parts.R.Uint64())
	assert.Equal(t, uint64(22), parts.S.Uint64())
	assert.Len(t, parts.AuthenticatorData, 37)
}

func TestWebAuthnCeremonyCancelled(t *testing.T) {
	auth := &fakeAuthenticator{err: context.Canceled}

	_, err := backend.WebAuthn(auth, false, common.Hash{})(t.Context(), backend.SignatureRequest{Hash: hash})
	require.ErrorIs(t, err, backend.ErrCeremonyCancelled)
}

func TestWebAuthnPropagatesFailure(t *testing.T) {
	boom := errors.New("authenticator unplugged")
	auth := &fakeAuthenticator{err: boom}

	_, err := backend.WebAuthn(auth, false, common.Hash{})(t.Context(), backend.SignatureRequest{Hash: hash})
	require.ErrorIs(t, err, boom)
}

func TestEncodeAssertionRejectsNegative(t *testing.T) {
	_, err := backend.EncodeAssertion(&backend.Assertion{R: big.NewInt(-1), S: big.NewInt(1)}, false, common.Hash{})
	require.Error(t, err)
}

func TestPairedPassesThrough(t *testing.T) {
	pairing := &fakePairing{sig: common.FromHex("0xc0ffee")}

	sig, err := backend.Paired(pairing)(t.Context(), backend.SignatureRequest{Hash: hash})
	require.NoError(t, err)
	assert.Equal(t, hash, pairing.got)
	assert.Equal(t, common.FromHex("0xc0ffee"), sig)
}

func TestPairedPropagatesErrorKind(t *testing.T) {
	expired := errors.New("expired")
	pairing := &fakePairing{err: expired}

	_, err := backend.Paired(pairing)(t.Context(), backend.SignatureRequest{Hash: hash})
	require.ErrorIs(t, err, expired)

	_, err = backend.Paired(nil)(t.Context(), backend.SignatureRequest{Hash: hash})
	require.ErrorIs(t, err, backend.ErrKeyUnavailable)
}
