package codec_test

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
)

func sampleParts() codec.Parts {
	return codec.Parts{
		RIP7212:             true,
		AuthenticatorIDHash: crypto.Keccak256Hash([]byte("credential-id")),
		ChallengeOffset:     uint256.NewInt(23),
		R:                   uint256.MustFromHex("0x1234"),
		S:                   uint256.MustFromHex("0xabcdef"),
		AuthenticatorData:   bytes.Repeat([]byte{0x01}, 37),
		ClientData:          []byte(`{"type":"webauthn.get","challenge":"abc","origin":"https://example.com"}`),
	}
}

func TestEncodeLayout(t *testing.T) {
	p := sampleParts()

	out, err := codec.Encode(p)
	require.NoError(t, err)

	require.Len(t, out, 1+32+32+32+32+3+3+len(p.AuthenticatorData)+len(p.ClientData))
	assert.Equal(t, codec.EncodedLength(p), len(out))

	assert.Equal(t, byte(0x01), out[0])
	assert.Equal(t, p.AuthenticatorIDHash.Bytes(), out[1:33])
	assert.Equal(t, common.LeftPadBytes([]byte{23}, 32), out[33:65])
	assert.Equal(t, common.LeftPadBytes([]byte{0x12, 0x34}, 32), out[65:97])
	assert.Equal(t, common.LeftPadBytes([]byte{0xab, 0xcd, 0xef}, 32), out[97:129])
	assert.Equal(t, []byte{0x00, 0x00, 37}, out[129:132])
	assert.Equal(t, []byte{0x00, 0x00, byte(len(p.ClientData))}, out[132:135])
	assert.Equal(t, p.AuthenticatorData, out[135:172])
	assert.Equal(t, p.ClientData, out[172:])
}

func TestEncodeFlagOff(t *testing.T) {
	p := sampleParts()
	p.RIP7212 = false

	out, err := codec.Encode(p)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), out[0])
}

func TestRoundTrip(t *testing.T) {
	p := sampleParts()

	out, err := codec.Encode(p)
	require.NoError(t, err)

	decoded, err := codec.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)

	again, err := codec.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRoundTripEmptyBlobs(t *testing.T) {
	p := sampleParts()
	p.AuthenticatorData = []byte{}
	p.ClientData = []byte{}

	out, err := codec.Encode(p)
	require.NoError(t, err)
	assert.Len(t, out, 135)

	decoded, err := codec.Decode(out)
	require.NoError(t, err)
	assert.Empty(t, decoded.AuthenticatorData)
	assert.Empty(t, decoded.ClientData)
}

func TestEncodeRejectsOversizedBlob(t *testing.T) {
	p := sampleParts()
	p.ClientData = make([]byte, 0x1000000)

	_, err := codec.Encode(p)
	require.ErrorIs(t, err, codec.ErrBlobTooLarge)

	p = sampleParts()
	p.AuthenticatorData = make([]byte, 0x1000000)

	_, err = codec.Encode(p)
	require.ErrorIs(t, err, codec.ErrBlobTooLarge)
}

func TestEncodeRequiresScalars(t *testing.T) {
	p := sampleParts()
	p.R = nil

	_, err := codec.Encode(p)
	require.ErrorIs(t, err, codec.ErrMissingSignature)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	out, err := codec.Encode(sampleParts())
	require.NoError(t, err)

	_, err = codec.Decode(out[:100])
	require.ErrorIs(t, err, codec.ErrMalformed)

	_, err = codec.Decode(out[:len(out)-1])
	require.ErrorIs(t, err, codec.ErrMalformed)

	_, err = codec.Decode(append(bytes.Clone(out), 0x00))
	require.ErrorIs(t, err, codec.ErrMalformed)

	badFlag := bytes.Clone(out)
	badFlag[0] = 0x02
	_, err = codec.Decode(badFlag)
	require.ErrorIs(t, err, codec.ErrMalformed)
}

func TestWebAuthnStub(t *testing.T) {
	idHash := crypto.Keccak256Hash([]byte("credential-id"))

	stub := codec.WebAuthnStub(false, idHash)
	require.Len(t, stub, 135+192+192)

	p, err := codec.Decode(stub)
	require.NoError(t, err)
	assert.False(t, p.RIP7212)
	assert.Equal(t, idHash, p.AuthenticatorIDHash)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 32), stub[33:65])

	maxScalar := uint256.MustFromHex("0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550")
	assert.True(t, p.R.Eq(maxScalar))
	assert.True(t, p.S.Eq(maxScalar))
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 192), p.AuthenticatorData)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 192), p.ClientData)

	assert.Equal(t, byte(0x01), codec.WebAuthnStub(true, idHash)[0])
}

func TestEcdsaStub(t *testing.T) {
	stub := codec.EcdsaStub()
	require.Len(t, stub, 65)
	assert.Equal(t, byte(0x1c), stub[64])

	stub[0] = 0x00
	assert.Equal(t, byte(0xff), codec.EcdsaStub()[0])
}
