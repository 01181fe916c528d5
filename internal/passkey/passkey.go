// Package passkey is a software WebAuthn authenticator over P-256. It produces
// assertions in the shape a platform authenticator returns them.
package passkey

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/kernel"
)

const (
	flagUserPresent  = 0x01
	flagUserVerified = 0x04

	credentialIDLength = 16
	typeGet            = "webauthn.get"
)

var challengeKey = []byte(`"challenge":"`)

var (
	ErrChallengeMismatch = errors.New("client data does not carry the expected challenge")
	ErrInvalidSignature  = errors.New("invalid webauthn signature")
)

type clientData struct {
	Type        string `json:"type"`
	Challenge   string `json:"challenge"`
	Origin      string `json:"origin"`
	CrossOrigin bool   `json:"crossOrigin"`
}

// Credential is one discoverable P-256 credential bound to a relying party.
type Credential struct {
	ID     string
	RPID   string
	Origin string

	key *ecdsa.PrivateKey

	mu        sync.Mutex
	signCount uint32
}

var _ backend.Authenticator = (*Credential)(nil)

func NewCredential(rpID string, origin string) (*Credential, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate passkey")
	}

	id := make([]byte, credentialIDLength)
	if _, err := rand.Read(id); err != nil {
		return nil, errors.Wrap(err, "failed to generate credential id")
	}

	return &Credential{
		ID:     base64.RawURLEncoding.EncodeToString(id),
		RPID:   rpID,
		Origin: origin,
		key:    key,
	}, nil
}

func (c *Credential) PublicKey() kernel.P256PublicKey {
	return kernel.P256PublicKey{
		X: new(big.Int).Set(c.key.X),
		Y: new(big.Int).Set(c.key.Y),
	}
}

// GetAssertion signs sha256(authenticatorData ‖ sha256(clientDataJSON)).
func (c *Credential) GetAssertion(ctx context.Context, challenge []byte) (*backend.Assertion, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(backend.ErrCeremonyCancelled, err.Error())
	}

	c.mu.Lock()
	c.signCount++
	count := c.signCount
	c.mu.Unlock()

	rpIDHash := sha256.Sum256([]byte(c.RPID))
	authData := make([]byte, 0, len(rpIDHash)+1+4) //nolint:mnd
	authData = append(authData, rpIDHash[:]...)
	authData = append(authData, flagUserPresent|flagUserVerified)
	authData = binary.BigEndian.AppendUint32(authData, count)

	clientDataJSON, err := json.Marshal(clientData{
		Type:      typeGet,
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
		Origin:    c.Origin,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode client data")
	}

	offset := bytes.Index(clientDataJSON, challengeKey)
	if offset < 0 {
		return nil, ErrChallengeMismatch
	}

	r, s, err := ecdsa.Sign(rand.Reader, c.key, signedDigest(authData, clientDataJSON))
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign assertion")
	}

	return &backend.Assertion{
		AuthenticatorData: authData,
		ClientDataJSON:    clientDataJSON,
		ChallengeOffset:   uint64(offset),
		R:                 r,
		S:                 lowS(s),
	}, nil
}

// Verify performs the validator's check of an assertion: the challenge must
// sit at the announced offset and (r, s) must be a low-s signature of the
// WebAuthn digest.
func Verify(pubKey kernel.P256PublicKey, challenge []byte, a *backend.Assertion) error {
	if a == nil || a.R == nil || a.S == nil || pubKey.X == nil || pubKey.Y == nil {
		return ErrInvalidSignature
	}

	expected := append(append([]byte{}, challengeKey...), base64.RawURLEncoding.EncodeToString(challenge)...)
	expected = append(expected, '"')

	offset := a.ChallengeOffset
	if offset > uint64(len(a.ClientDataJSON)) || !bytes.HasPrefix(a.ClientDataJSON[offset:], expected) {
		return ErrChallengeMismatch
	}

	if a.S.Cmp(halfOrder()) > 0 {
		return errors.Wrap(ErrInvalidSignature, "s is not normalised")
	}

	pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: pubKey.X, Y: pubKey.Y}
	if !ecdsa.Verify(pub, signedDigest(a.AuthenticatorData, a.ClientDataJSON), a.R, a.S) {
		return ErrInvalidSignature
	}

	return nil
}

func signedDigest(authData []byte, clientDataJSON []byte) []byte {
	clientHash := sha256.Sum256(clientDataJSON)
	digest := sha256.Sum256(append(append([]byte{}, authData...), clientHash[:]...))

	return digest[:]
}

func halfOrder() *big.Int {
	return new(big.Int).Rsh(elliptic.P256().Params().N, 1)
}

func lowS(s *big.Int) *big.Int {
	if s.Cmp(halfOrder()) > 0 {
		return new(big.Int).Sub(elliptic.P256().Params().N, s)
	}

	return s
}
