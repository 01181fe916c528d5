package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/types"
	"github/frak-labs/go-smart-wallet/internal/util"
)

func PostStubSignatureRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Accounts.POST("/stub-signature", postStubSignatureHandler(s))
}

// postStubSignatureHandler returns the dummy signature bundlers estimate
// verification gas with.
func postStubSignatureHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostAccountPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		acc, err := resolve(ctx, s, body.Account)
		if err != nil {
			return err
		}

		stub, err := acc.GetStubSignature(ctx)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.SignatureResponse{
			Signature: swag.String(hexutil.Encode(stub)),
		})
	}
}
