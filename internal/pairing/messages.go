package pairing

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	typePing              = "ping"
	typePong              = "pong"
	typeSignatureRequest  = "signature-request"
	typeSignatureResponse = "signature-response"
	typeSignatureReject   = "signature-reject"
	typePairingInitiated  = "pairing-initiated"
	typePartnerConnected  = "partner-connected"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type signatureRequest struct {
	ID      string        `json:"id"`
	Request hexutil.Bytes `json:"request"`
	Context interface{}   `json:"context,omitempty"`
}

type signatureResponse struct {
	ID        string        `json:"id"`
	Signature hexutil.Bytes `json:"signature"`
}

type signatureReject struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type pairingInitiated struct {
	PairingID   string `json:"pairingId"`
	PairingCode string `json:"pairingCode"`
}

type partnerConnected struct {
	DeviceName string `json:"deviceName"`
}
