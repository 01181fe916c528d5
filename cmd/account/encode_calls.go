package account

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

func newEncodeCalls(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "encode-calls <to[,value[,data]]>...",
		Short: "Prints the account calldata executing the given calls",
		Long: `Encodes one call as execute and several calls as executeBatch.

Each argument is a call: the target address, optionally followed by
the value in wei and the 0x prefixed calldata, comma separated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calls, err := parseCalls(args)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				acc, err := f.resolve(ctx, s)
				if err != nil {
					return err
				}

				data, err := acc.EncodeCalls(calls)
				if err != nil {
					return err
				}

				fmt.Println(hexutil.Encode(data))

				return nil
			})
		},
	}
}

func parseCalls(args []string) ([]account.Call, error) {
	calls := make([]account.Call, 0, len(args))

	for i, arg := range args {
		parts := strings.Split(arg, ",")
		if len(parts) > 3 || !common.IsHexAddress(parts[0]) {
			return nil, errors.Errorf("call %d: expected <to[,value[,data]]>, got %q", i, arg)
		}

		call := account.Call{To: common.HexToAddress(parts[0]), Value: new(big.Int)}

		if len(parts) > 1 && parts[1] != "" {
			value, err := parseQuantity(parts[1])
			if err != nil {
				return nil, errors.Wrapf(err, "call %d value", i)
			}
			call.Value = value
		}

		if len(parts) > 2 && parts[2] != "" {
			data, err := hexutil.Decode(parts[2])
			if err != nil {
				return nil, errors.Wrapf(err, "call %d data", i)
			}
			call.Data = data
		}

		calls = append(calls, call)
	}

	return calls, nil
}
