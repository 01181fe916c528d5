package pairing

import (
	"github.com/pkg/errors"
)

var (
	ErrNotConnected     = errors.New("pairing connection not established")
	ErrConnectionClosed = errors.New("pairing connection closed")
	ErrRequestRejected  = errors.New("signature request rejected by paired device")
	ErrRequestExpired   = errors.New("signature request expired")
)

// RejectedError carries the reason the paired device gave.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return ErrRequestRejected.Error()
	}

	return ErrRequestRejected.Error() + ": " + e.Reason
}

func (e *RejectedError) Unwrap() error {
	return ErrRequestRejected
}
