package httperrors

import (
	"net/http"

	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/account/codec"
	"github/frak-labs/go-smart-wallet/internal/account/resolver"
	"github/frak-labs/go-smart-wallet/internal/rpc"
	"github/frak-labs/go-smart-wallet/internal/types"
)

var (
	ErrNotFoundAccountAddress = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeACCOUNTADDRESSNOTFOUND, "Account address not found")
	ErrBadGatewayChain        = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeCHAINUNAVAILABLE, "Chain RPC unavailable")
	ErrBadRequestNoCalls      = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeNOCALLS, "At least one call is required")
	ErrBadRequestBlobTooLarge = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeSIGNATUREBLOBTOOLARGE, "Signature blob too large")
)

// FromDomainError maps the sentinel errors of the account layer, nil when err
// is not one of them.
func FromDomainError(err error) *HTTPError {
	switch {
	case errors.Is(err, resolver.ErrAccountAddressNotFound):
		return ErrNotFoundAccountAddress.Wrap(err)
	case errors.Is(err, account.ErrNoCalls):
		return ErrBadRequestNoCalls.Wrap(err)
	case errors.Is(err, codec.ErrBlobTooLarge):
		return ErrBadRequestBlobTooLarge.Wrap(err)
	case errors.Is(err, rpc.ErrNoHealthyClient), errors.Is(err, resolver.ErrSenderAddressNotReverted):
		return ErrBadGatewayChain.Wrap(err)
	default:
		return nil
	}
}
