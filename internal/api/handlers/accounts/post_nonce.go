package accounts

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/types"
	"github/frak-labs/go-smart-wallet/internal/util"
)

func PostNonceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Accounts.POST("/nonce", postNonceHandler(s))
}

func postNonceHandler(s *api.Server) echo.HandlerFunc {
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

		nonce, err := acc.GetNonce(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Str("account", acc.Address().Hex()).Msg("Failed to read nonce")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.NonceResponse{
			Nonce: swag.String(nonce.String()),
		})
	}
}
