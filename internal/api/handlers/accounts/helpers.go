package accounts

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/api/httperrors"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/types"
)

// resolve builds the account described by d.
//
//nolint:ireturn // account.SmartAccount is the account abstraction
func resolve(ctx context.Context, s *api.Server, d *types.AccountDescriptor) (account.SmartAccount, error) {
	req := api.AccountRequest{
		Type:            swag.StringValue(d.Type),
		AuthenticatorID: d.AuthenticatorID,
		Index:           big.NewInt(d.Index),
	}

	if d.PubKey != nil {
		x, err := parseQuantity("pubKey.x", swag.StringValue(d.PubKey.X))
		if err != nil {
			return nil, err
		}
		y, err := parseQuantity("pubKey.y", swag.StringValue(d.PubKey.Y))
		if err != nil {
			return nil, err
		}

		req.PubKey = kernel.P256PublicKey{X: x, Y: y}
	}

	if d.Owner != "" {
		req.Owner = common.HexToAddress(d.Owner)
	}

	if d.Address != "" {
		addr := common.HexToAddress(d.Address)
		req.Address = &addr
	}

	return s.ResolveAccount(ctx, req)
}

// parseQuantity accepts decimal or 0x prefixed hex. Empty means zero.
func parseQuantity(key string, value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}

	var (
		n  *big.Int
		ok bool
	)
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		n, ok = new(big.Int).SetString(value[2:], 16)
	} else {
		n, ok = new(big.Int).SetString(value, 10)
	}

	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, invalidField(key, "must be an unsigned 256 bit integer")
	}

	return n, nil
}

func parseBytes(key string, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}

	b, err := hexutil.Decode(value)
	if err != nil {
		return nil, invalidField(key, "must be 0x prefixed hex")
	}

	return b, nil
}

func invalidField(key string, msg string) error {
	return httperrors.NewHTTPValidationError(
		http.StatusBadRequest,
		types.PublicHTTPErrorTypeGeneric,
		"Invalid "+key,
		[]*types.HTTPValidationErrorDetail{
			{
				Key:   swag.String(key),
				In:    swag.String("body"),
				Error: swag.String(msg),
			},
		},
	)
}
