package account

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

func newAddress(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Prints the account address and its deployment state",
		Long: `Resolves the counterfactual account address through the
entry point and prints whether it is deployed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				acc, err := f.resolve(ctx, s)
				if err != nil {
					return err
				}

				deployed, err := acc.IsDeployed(ctx)
				if err != nil {
					return err
				}

				fmt.Printf("address:  %s\n", acc.Address().Hex())
				fmt.Printf("deployed: %t\n", deployed)
				fmt.Printf("create:   %t\n", acc.CanCreateAccount())

				return nil
			})
		},
	}
}
