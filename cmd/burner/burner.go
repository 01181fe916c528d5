package burner

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/frak-labs/go-smart-wallet/internal/burner"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util"
	"github/frak-labs/go-smart-wallet/internal/util/command"
	"golang.org/x/term"
)

// passwordEnv allows non interactive use, e.g. in CI.
const passwordEnv = "BURNER_PASSWORD"

func New() *cobra.Command {
	return command.NewSubcommandGroup("burner",
		newCreate(),
		newImport(),
		newAddress(),
		newVerify(),
	)
}

//nolint:ireturn // burner.Service is the keystore abstraction
func newService() burner.Service {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	return burner.NewService(cfg.Burner, burner.DefaultScryptParams())
}

// readPassword reads BURNER_PASSWORD, or prompts on the terminal.
func readPassword(prompt string) (string, error) {
	if pw := util.GetEnv(passwordEnv, ""); pw != "" {
		return pw, nil
	}

	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", errors.Errorf("no terminal to prompt for a password, set %s", passwordEnv)
	}

	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	return string(pw), nil
}

func readNewPassword() (string, error) {
	pw, err := readPassword("New keystore password: ")
	if err != nil {
		return "", err
	}

	if util.GetEnv(passwordEnv, "") != "" {
		return pw, nil
	}

	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New("passwords do not match")
	}

	return pw, nil
}

func readMnemonic() (string, error) {
	fmt.Fprint(os.Stderr, "Mnemonic: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "failed to read mnemonic")
	}

	return strings.Join(strings.Fields(line), " "), nil
}
