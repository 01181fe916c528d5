package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/config"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long: `This command validates the config and checks that the
directory holding the burner keystore is writable.
Exits 1 if any probe fails.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse args")
			}

			runLiveness(cmd.Context(), config.DefaultServiceConfigFromEnv(), verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runLiveness(_ context.Context, cfg config.Server, verbose bool) {
	var errs []error

	if err := cfg.Validate(); err != nil {
		errs = append(errs, errors.Wrap(err, "invalid config"))
	}

	if err := probeWritable(filepath.Dir(cfg.Burner.KeystorePath)); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		if verbose {
			for _, err := range errs {
				log.Warn().Err(err).Msg("Liveness probe failure")
			}
		}

		os.Exit(1)
	}

	if verbose {
		fmt.Println("Liveness probes succeeded.")
	}
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return errors.Wrapf(err, "directory %s is not writable", dir)
	}

	name := f.Name()
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to close probe file")
	}

	return os.Remove(name)
}
