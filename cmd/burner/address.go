package burner

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Prints the burner address without unlocking the keystore",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := newService().Address(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(addr.Hex())

			return nil
		},
	}
}

func newVerify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Unlocks the keystore to check the password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword("Keystore password: ")
			if err != nil {
				return err
			}

			signer, err := newService().Unlock(cmd.Context(), pw)
			if err != nil {
				return err
			}

			fmt.Printf("Unlocked %s\n", signer.Address().Hex())

			return nil
		},
	}
}
