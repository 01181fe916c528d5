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

func PostResolveAccountRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Accounts.POST("/resolve", postResolveAccountHandler(s))
}

// postResolveAccountHandler returns the counterfactual address of an account,
// whether it is deployed and, until it is, the factory call deploying it.
func postResolveAccountHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostAccountPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		acc, err := resolve(ctx, s, body.Account)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to resolve account")
			return err
		}

		deployed, err := acc.IsDeployed(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to read account deployment state")
			return err
		}

		factoryArgs, err := acc.GetFactoryArgs(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to get factory args")
			return err
		}

		response := &types.AccountResponse{
			Address:          swag.String(acc.Address().Hex()),
			CanCreateAccount: swag.Bool(acc.CanCreateAccount()),
			Deployed:         swag.Bool(deployed),
		}
		if !factoryArgs.IsEmpty() {
			response.Factory = factoryArgs.Factory.Hex()
			response.FactoryData = hexutil.Encode(factoryArgs.FactoryData)
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
