package accounts

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/types"
	"github/frak-labs/go-smart-wallet/internal/util"
)

func PostEncodeCallsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Accounts.POST("/encode-calls", postEncodeCallsHandler(s))
}

func postEncodeCallsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostEncodeCallsPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		calls := make([]account.Call, 0, len(body.Calls))
		for i, call := range body.Calls {
			prefix := "calls." + strconv.Itoa(i)

			value, err := parseQuantity(prefix+".value", call.Value)
			if err != nil {
				return err
			}

			data, err := parseBytes(prefix+".data", call.Data)
			if err != nil {
				return err
			}

			calls = append(calls, account.Call{
				To:    common.HexToAddress(swag.StringValue(call.To)),
				Value: value,
				Data:  data,
			})
		}

		acc, err := resolve(ctx, s, body.Account)
		if err != nil {
			return err
		}

		callData, err := acc.EncodeCalls(calls)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.EncodeCallsResponse{
			CallData: swag.String(hexutil.Encode(callData)),
		})
	}
}
