package codec

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// P256Order is the order n of the secp256r1 group.
var P256Order = uint256.MustFromHex("0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")

const stubBlobRepeat = 6

// ecdsaStub is a well-formed 65-byte r ‖ s ‖ v that never recovers to a real owner.
var ecdsaStub = common.FromHex("0xfffffffffffffffffffffffffffffff0000000000000000000000000000000007aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa1c")

// WebAuthnStubParts returns the maximal dummy signature used for gas estimation.
func WebAuthnStubParts(rip7212 bool, authenticatorIDHash common.Hash) Parts {
	blob := bytes.Repeat([]byte{0xff}, wordLength*stubBlobRepeat)
	maxScalar := new(uint256.Int).SubUint64(P256Order, 1)

	return Parts{
		RIP7212:             rip7212,
		AuthenticatorIDHash: authenticatorIDHash,
		ChallengeOffset:     new(uint256.Int).SetAllOne(),
		R:                   maxScalar,
		S:                   new(uint256.Int).Set(maxScalar),
		AuthenticatorData:   blob,
		ClientData:          bytes.Clone(blob),
	}
}

func WebAuthnStub(rip7212 bool, authenticatorIDHash common.Hash) []byte {
	// Stub parts are always within bounds.
	out, _ := Encode(WebAuthnStubParts(rip7212, authenticatorIDHash))

	return out
}

// EcdsaStub returns a copy of the ECDSA validator dummy signature.
func EcdsaStub() []byte {
	return bytes.Clone(ecdsaStub)
}
