package burner

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Creates a new burner keystore",
		Long: `Generates a 24 word mnemonic, seals it in the keystore at
BURNER_KEYSTORE_PATH and prints the derived burner address.
Fails if the keystore already exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readNewPassword()
			if err != nil {
				return err
			}

			addr, err := newService().Create(cmd.Context(), pw)
			if err != nil {
				return err
			}

			fmt.Println(addr.Hex())

			return nil
		},
	}
}

func newImport() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Seals an existing mnemonic in the burner keystore",
		Long:  `Reads a BIP-39 mnemonic from stdin and seals it like create does.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonic, err := readMnemonic()
			if err != nil {
				return err
			}

			pw, err := readNewPassword()
			if err != nil {
				return err
			}

			addr, err := newService().Import(cmd.Context(), mnemonic, pw)
			if err != nil {
				return err
			}

			fmt.Println(addr.Hex())

			return nil
		},
	}
}
