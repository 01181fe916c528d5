package passkey_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/passkey"
)

func newCredential(t *testing.T) *passkey.Credential {
	t.Helper()

	cred, err := passkey.NewCredential("wallet.example.com", "https://wallet.example.com")
	require.NoError(t, err)

	return cred
}

func TestAssertionVerifies(t *testing.T) {
	cred := newCredential(t)
	challenge := crypto.Keccak256([]byte("challenge"))

	a, err := cred.GetAssertion(t.Context(), challenge)
	require.NoError(t, err)
	require.NoError(t, passkey.Verify(cred.PublicKey(), challenge, a))
}

func TestAssertionShape(t *testing.T) {
	cred := newCredential(t)
	challenge := crypto.Keccak256([]byte("challenge"))

	a, err := cred.GetAssertion(t.Context(), challenge)
	require.NoError(t, err)

	rpIDHash := sha256.Sum256([]byte("wallet.example.com"))
	require.Len(t, a.AuthenticatorData, 37)
	assert.Equal(t, rpIDHash[:], a.AuthenticatorData[:32])
	assert.Equal(t, byte(0x05), a.AuthenticatorData[32])
	assert.Equal(t, []byte{0, 0, 0, 1}, a.AuthenticatorData[33:])

	var cd map[string]interface{}
	require.NoError(t, json.Unmarshal(a.ClientDataJSON, &cd))
	assert.Equal(t, "webauthn.get", cd["type"])
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(challenge), cd["challenge"])
	assert.Equal(t, "https://wallet.example.com", cd["origin"])

	assert.True(t, bytes.HasPrefix(a.ClientDataJSON[a.ChallengeOffset:], []byte(`"challenge":"`)))

	half := new(big.Int).Rsh(passkeyOrder(), 1)
	assert.LessOrEqual(t, a.S.Cmp(half), 0)

	second, err := cred.GetAssertion(t.Context(), challenge)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 2}, second.AuthenticatorData[33:])
}

func TestVerifyRejectsWrongChallenge(t *testing.T) {
	cred := newCredential(t)

	a, err := cred.GetAssertion(t.Context(), []byte("one"))
	require.NoError(t, err)

	err = passkey.Verify(cred.PublicKey(), []byte("two"), a)
	require.ErrorIs(t, err, passkey.ErrChallengeMismatch)
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	cred := newCredential(t)
	challenge := []byte("challenge")

	a, err := cred.GetAssertion(t.Context(), challenge)
	require.NoError(t, err)

	a.AuthenticatorData[36] ^= 0xff
	err = passkey.Verify(cred.PublicKey(), challenge, a)
	require.ErrorIs(t, err, passkey.ErrInvalidSignature)
}

func TestVerifyRejectsOtherKey(t *testing.T) {
	cred := newCredential(t)
	other := newCredential(t)
	challenge := []byte("challenge")

	a, err := cred.GetAssertion(t.Context(), challenge)
	require.NoError(t, err)

	err = passkey.Verify(other.PublicKey(), challenge, a)
	require.ErrorIs(t, err, passkey.ErrInvalidSignature)
}

func TestVerifyRejectsHighS(t *testing.T) {
	cred := newCredential(t)
	challenge := []byte("challenge")

	a, err := cred.GetAssertion(t.Context(), challenge)
	require.NoError(t, err)

	a.S = new(big.Int).Sub(passkeyOrder(), a.S)
	err = passkey.Verify(cred.PublicKey(), challenge, a)
	require.ErrorIs(t, err, passkey.ErrInvalidSignature)
}

func TestCancelledCeremony(t *testing.T) {
	cred := newCredential(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := cred.GetAssertion(ctx, []byte("challenge"))
	require.ErrorIs(t, err, backend.ErrCeremonyCancelled)
}

func passkeyOrder() *big.Int {
	n, _ := new(big.Int).SetString("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", 16)
	return n
}
