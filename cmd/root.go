package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/cmd/account"
	"github/frak-labs/go-smart-wallet/cmd/burner"
	"github/frak-labs/go-smart-wallet/cmd/env"
	"github/frak-labs/go-smart-wallet/cmd/probe"
	"github/frak-labs/go-smart-wallet/cmd/server"
	"github/frak-labs/go-smart-wallet/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Kernel v2 smart accounts on ERC-4337 v0.6 chains: address resolution,
call encoding, user operation hashing and a local burner signer.
Requires configuration through ENV.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		account.New(),
		burner.New(),
		env.New(),
		probe.New(),
		server.New(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
