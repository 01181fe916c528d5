package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/types"
	"github/frak-labs/go-smart-wallet/internal/userop"
	"github/frak-labs/go-smart-wallet/internal/util"
)

func PostUserOperationHashRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Operations.POST("/hash", postUserOperationHashHandler(s))
}

// postUserOperationHashHandler returns the hash the account signs for a user
// operation. Without a sender the account address is used.
func postUserOperationHashHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostUserOperationHashPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		op, err := userOperationFromPayload(body.UserOperation)
		if err != nil {
			return err
		}

		acc, err := resolve(ctx, s, body.Account)
		if err != nil {
			return err
		}

		if op.Sender == (common.Address{}) {
			op.Sender = acc.Address()
		}

		hash, err := acc.UserOperationHash(ctx, op)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to hash user operation")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.UserOperationHashResponse{
			Hash:   swag.String(hash.Hex()),
			Sender: swag.String(op.Sender.Hex()),
		})
	}
}

func userOperationFromPayload(p *types.UserOperationPayload) (*userop.UserOperation, error) {
	op := &userop.UserOperation{}

	if p.Sender != "" {
		op.Sender = common.HexToAddress(p.Sender)
	}

	quantities := []struct {
		key   string
		value string
		dst   **big.Int
	}{
		{"userOperation.nonce", swag.StringValue(p.Nonce), &op.Nonce},
		{"userOperation.callGasLimit", p.CallGasLimit, &op.CallGasLimit},
		{"userOperation.verificationGasLimit", p.VerificationGasLimit, &op.VerificationGasLimit},
		{"userOperation.preVerificationGas", p.PreVerificationGas, &op.PreVerificationGas},
		{"userOperation.maxFeePerGas", p.MaxFeePerGas, &op.MaxFeePerGas},
		{"userOperation.maxPriorityFeePerGas", p.MaxPriorityFeePerGas, &op.MaxPriorityFeePerGas},
	}
	for _, q := range quantities {
		n, err := parseQuantity(q.key, q.value)
		if err != nil {
			return nil, err
		}
		*q.dst = n
	}

	blobs := []struct {
		key   string
		value string
		dst   *[]byte
	}{
		{"userOperation.initCode", p.InitCode, &op.InitCode},
		{"userOperation.callData", swag.StringValue(p.CallData), &op.CallData},
		{"userOperation.paymasterAndData", p.PaymasterAndData, &op.PaymasterAndData},
	}
	for _, b := range blobs {
		v, err := parseBytes(b.key, b.value)
		if err != nil {
			return nil, err
		}
		*b.dst = v
	}

	return op, nil
}
