// Package codec packs the WebAuthn validator signature layout:
//
//	flag(1) ‖ authenticatorIdHash(32) ‖ challengeOffset(32) ‖ r(32) ‖ s(32) ‖
//	len(authenticatorData)(3) ‖ len(clientData)(3) ‖ authenticatorData ‖ clientData
package codec

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

const (
	wordLength   = 32
	lengthPrefix = 3
	headerLength = 1 + common.HashLength + 3*wordLength + 2*lengthPrefix

	// MaxBlobLength is the largest blob a uint24 length prefix can describe.
	MaxBlobLength = 1<<24 - 1
)

var (
	ErrBlobTooLarge     = errors.New("signature blob exceeds uint24 length")
	ErrMalformed        = errors.New("malformed webauthn signature")
	ErrMissingSignature = errors.New("signature components are required")
)

// Parts is the decoded form of a WebAuthn validator signature.
type Parts struct {
	// RIP7212 selects the precompile verifier instead of the solidity fallback.
	RIP7212             bool
	AuthenticatorIDHash common.Hash
	ChallengeOffset     *uint256.Int
	R                   *uint256.Int
	S                   *uint256.Int
	AuthenticatorData   []byte
	ClientData          []byte
}

// EncodedLength returns the byte length Encode produces for p.
func EncodedLength(p Parts) int {
	return headerLength + len(p.AuthenticatorData) + len(p.ClientData)
}

func Encode(p Parts) ([]byte, error) {
	if p.ChallengeOffset == nil || p.R == nil || p.S == nil {
		return nil, ErrMissingSignature
	}
	if len(p.AuthenticatorData) > MaxBlobLength {
		return nil, errors.Wrapf(ErrBlobTooLarge, "authenticator data is %d bytes", len(p.AuthenticatorData))
	}
	if len(p.ClientData) > MaxBlobLength {
		return nil, errors.Wrapf(ErrBlobTooLarge, "client data is %d bytes", len(p.ClientData))
	}

	out := make([]byte, 0, EncodedLength(p))

	var flag byte
	if p.RIP7212 {
		flag = 1
	}
	out = append(out, flag)
	out = append(out, p.AuthenticatorIDHash.Bytes()...)

	offset := p.ChallengeOffset.Bytes32()
	r := p.R.Bytes32()
	s := p.S.Bytes32()
	out = append(out, offset[:]...)
	out = append(out, r[:]...)
	out = append(out, s[:]...)

	out = appendUint24(out, len(p.AuthenticatorData))
	out = appendUint24(out, len(p.ClientData))
	out = append(out, p.AuthenticatorData...)
	out = append(out, p.ClientData...)

	return out, nil
}

// Decode is the exact inverse of Encode. Trailing or missing bytes are rejected.
func Decode(b []byte) (Parts, error) {
	if len(b) < headerLength {
		return Parts{}, errors.Wrapf(ErrMalformed, "got %d bytes, need at least %d", len(b), headerLength)
	}

	var p Parts
	switch b[0] {
	case 0:
	case 1:
		p.RIP7212 = true
	default:
		return Parts{}, errors.Wrapf(ErrMalformed, "invalid verifier flag 0x%02x", b[0])
	}

	pos := 1
	p.AuthenticatorIDHash = common.BytesToHash(b[pos : pos+common.HashLength])
	pos += common.HashLength

	p.ChallengeOffset = new(uint256.Int).SetBytes32(b[pos : pos+wordLength])
	pos += wordLength
	p.R = new(uint256.Int).SetBytes32(b[pos : pos+wordLength])
	pos += wordLength
	p.S = new(uint256.Int).SetBytes32(b[pos : pos+wordLength])
	pos += wordLength

	authLen := readUint24(b[pos:])
	pos += lengthPrefix
	clientLen := readUint24(b[pos:])
	pos += lengthPrefix

	if len(b)-pos != authLen+clientLen {
		return Parts{}, errors.Wrapf(ErrMalformed, "blob lengths %d+%d do not match remaining %d bytes", authLen, clientLen, len(b)-pos)
	}

	p.AuthenticatorData = append([]byte{}, b[pos:pos+authLen]...)
	pos += authLen
	p.ClientData = append([]byte{}, b[pos:pos+clientLen]...)

	return p, nil
}

func appendUint24(b []byte, v int) []byte {
	return append(b, byte(v>>16), byte(v>>8), byte(v)) //nolint:mnd
}

func readUint24(b []byte) int {
	return int(b[0])<<16 | int(b[1])<<8 | int(b[2]) //nolint:mnd
}
