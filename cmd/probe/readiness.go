package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long: `This command checks that the chain RPC answers and that
the entry point and the kernel factory are deployed on it.
Exits 1 if any probe fails.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse args")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			cfg.Logger.PrettyPrintConsole = verbose

			err = command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runReadiness(ctx, s, verbose)
			})
			if err != nil {
				if verbose {
					log.Warn().Err(err).Msg("Readiness probe failure")
				}
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runReadiness(ctx context.Context, s *api.Server, verbose bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Config.Management.ProbeReadinessTimeout)
	defer cancel()

	addrs, chainID, err := s.Addresses(ctx)
	if err != nil {
		return err
	}

	probes := []struct {
		name    string
		address common.Address
	}{
		{"entry point", addrs.EntryPoint},
		{"factory", addrs.Factory},
	}

	for _, p := range probes {
		code, err := s.Chain.CodeAt(ctx, p.address, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s code", p.name)
		}
		if len(code) == 0 {
			return fmt.Errorf("%s %s has no code on chain %d", p.name, p.address.Hex(), chainID)
		}
	}

	if verbose {
		fmt.Printf("Readiness probes succeeded on chain %d.\n", chainID)
	}

	return nil
}
