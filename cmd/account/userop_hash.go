package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/userop"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

const (
	senderFlag               = "sender"
	nonceFlag                = "nonce"
	initCodeFlag             = "init-code"
	callDataFlag             = "call-data"
	callGasLimitFlag         = "call-gas-limit"
	verificationGasLimitFlag = "verification-gas-limit"
	preVerificationGasFlag   = "pre-verification-gas"
	maxFeePerGasFlag         = "max-fee-per-gas"
	maxPriorityFeePerGasFlag = "max-priority-fee-per-gas"
	paymasterAndDataFlag     = "paymaster-and-data"
)

func newUserOperationHash(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userop-hash",
		Short: "Prints the hash the account signs for a user operation",
		Long: `Hashes a v0.6 user operation for the configured entry point
and chain. The sender defaults to the account address and the nonce to
the current entry point nonce.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			op, err := userOperationFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				acc, err := f.resolve(ctx, s)
				if err != nil {
					return err
				}

				if op.Sender == (common.Address{}) {
					op.Sender = acc.Address()
				}
				if op.Nonce == nil {
					if op.Nonce, err = acc.GetNonce(ctx); err != nil {
						return err
					}
				}

				hash, err := acc.UserOperationHash(ctx, op)
				if err != nil {
					return err
				}

				fmt.Println(hash.Hex())

				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.String(senderFlag, "", "Sender address, defaults to the account address.")
	fs.String(nonceFlag, "", "Nonce, defaults to the entry point nonce.")
	fs.String(initCodeFlag, "", "Init code, 0x prefixed hex.")
	fs.String(callDataFlag, "", "Call data, 0x prefixed hex.")
	fs.String(callGasLimitFlag, "0", "Call gas limit.")
	fs.String(verificationGasLimitFlag, "0", "Verification gas limit.")
	fs.String(preVerificationGasFlag, "0", "Pre verification gas.")
	fs.String(maxFeePerGasFlag, "0", "Max fee per gas in wei.")
	fs.String(maxPriorityFeePerGasFlag, "0", "Max priority fee per gas in wei.")
	fs.String(paymasterAndDataFlag, "", "Paymaster and data, 0x prefixed hex.")

	return cmd
}

func userOperationFromFlags(fs *pflag.FlagSet) (*userop.UserOperation, error) {
	op := &userop.UserOperation{}

	if sender, _ := fs.GetString(senderFlag); sender != "" {
		if !common.IsHexAddress(sender) {
			return nil, errors.Errorf("invalid --%s %q", senderFlag, sender)
		}
		op.Sender = common.HexToAddress(sender)
	}

	quantities := []struct {
		name string
		dst  **big.Int
	}{
		{nonceFlag, &op.Nonce},
		{callGasLimitFlag, &op.CallGasLimit},
		{verificationGasLimitFlag, &op.VerificationGasLimit},
		{preVerificationGasFlag, &op.PreVerificationGas},
		{maxFeePerGasFlag, &op.MaxFeePerGas},
		{maxPriorityFeePerGasFlag, &op.MaxPriorityFeePerGas},
	}
	for _, q := range quantities {
		value, _ := fs.GetString(q.name)
		if value == "" {
			continue
		}

		n, err := parseQuantity(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --%s", q.name)
		}
		*q.dst = n
	}

	blobs := []struct {
		name string
		dst  *[]byte
	}{
		{initCodeFlag, &op.InitCode},
		{callDataFlag, &op.CallData},
		{paymasterAndDataFlag, &op.PaymasterAndData},
	}
	for _, b := range blobs {
		value, _ := fs.GetString(b.name)
		if value == "" {
			continue
		}

		data, err := hexutil.Decode(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --%s", b.name)
		}
		*b.dst = data
	}

	return op, nil
}
