package account

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

func newFactoryArgs(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "factory-args",
		Short: "Prints the init code to attach to the next user operation",
		Long: `Prints the factory address and the factory calldata on two
lines. Prints nothing once the account is deployed, or when the known
address does not belong to the signer.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				acc, err := f.resolve(ctx, s)
				if err != nil {
					return err
				}

				args, err := acc.GetFactoryArgs(ctx)
				if err != nil {
					return err
				}
				if args.IsEmpty() {
					return nil
				}

				fmt.Println(args.Factory.Hex())
				fmt.Println(hexutil.Encode(args.FactoryData))

				return nil
			})
		},
	}
}
