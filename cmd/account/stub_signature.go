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

func newStubSignature(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "stub-signature",
		Short: "Prints the dummy signature used for gas estimation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				acc, err := f.resolve(ctx, s)
				if err != nil {
					return err
				}

				sig, err := acc.GetStubSignature(ctx)
				if err != nil {
					return err
				}

				fmt.Println(hexutil.Encode(sig))

				return nil
			})
		},
	}
}
