package account

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

func newNonce(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "nonce",
		Short: "Prints the entry point nonce of the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				acc, err := f.resolve(ctx, s)
				if err != nil {
					return err
				}

				nonce, err := acc.GetNonce(ctx)
				if err != nil {
					return err
				}

				fmt.Println(nonce.String())

				return nil
			})
		},
	}
}
