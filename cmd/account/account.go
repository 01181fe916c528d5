package account

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/frak-labs/go-smart-wallet/internal/account"
	"github/frak-labs/go-smart-wallet/internal/api"
	"github/frak-labs/go-smart-wallet/internal/burner"
	"github/frak-labs/go-smart-wallet/internal/kernel"
	"github/frak-labs/go-smart-wallet/internal/util/command"
)

const (
	envPrefix = "SMART_WALLET"

	typeFlag            = "type"
	authenticatorIDFlag = "authenticator-id"
	pubKeyXFlag         = "pubkey-x"
	pubKeyYFlag         = "pubkey-y"
	ownerFlag           = "owner"
	burnerFlag          = "burner"
	indexFlag           = "index"
	addressFlag         = "address"
)

var ErrMissingOwner = errors.New("an ecdsa account needs --owner or --burner")

// flags binds the account descriptor flags to viper, so each of them can
// also be set as SMART_WALLET_<FLAG>.
type flags struct {
	v *viper.Viper
}

func New() *cobra.Command {
	f := &flags{v: viper.New()}

	cmd := command.NewSubcommandGroup("account",
		newAddress(f),
		newFactoryArgs(f),
		newNonce(f),
		newStubSignature(f),
		newEncodeCalls(f),
		newUserOperationHash(f),
	)

	pf := cmd.PersistentFlags()
	pf.String(typeFlag, api.AccountTypeWebAuthn, "Account type, webauthn or ecdsa.")
	pf.String(authenticatorIDFlag, "", "WebAuthn credential id.")
	pf.String(pubKeyXFlag, "", "P-256 public key x coordinate, hex or decimal.")
	pf.String(pubKeyYFlag, "", "P-256 public key y coordinate, hex or decimal.")
	pf.String(ownerFlag, "", "ECDSA owner address.")
	pf.Bool(burnerFlag, false, "Use the burner keystore address as ECDSA owner.")
	pf.Int64(indexFlag, 0, "Account index passed to the factory.")
	pf.String(addressFlag, "", "Known account address; creation is disabled if it differs from the computed one.")

	f.v.SetEnvPrefix(envPrefix)
	f.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	f.v.AutomaticEnv()
	if err := f.v.BindPFlags(pf); err != nil {
		panic(err)
	}

	return cmd
}

// resolve builds the account described by the flags.
//
//nolint:ireturn // account.SmartAccount is the account abstraction
func (f *flags) resolve(ctx context.Context, s *api.Server) (account.SmartAccount, error) {
	req := api.AccountRequest{
		Type:            f.v.GetString(typeFlag),
		AuthenticatorID: f.v.GetString(authenticatorIDFlag),
		Index:           big.NewInt(f.v.GetInt64(indexFlag)),
	}

	if addr := f.v.GetString(addressFlag); addr != "" {
		if !common.IsHexAddress(addr) {
			return nil, errors.Errorf("invalid --%s %q", addressFlag, addr)
		}
		a := common.HexToAddress(addr)
		req.Address = &a
	}

	switch req.Type {
	case api.AccountTypeWebAuthn:
		x, err := parseQuantity(f.v.GetString(pubKeyXFlag))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --%s", pubKeyXFlag)
		}
		y, err := parseQuantity(f.v.GetString(pubKeyYFlag))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --%s", pubKeyYFlag)
		}
		req.PubKey = kernel.P256PublicKey{X: x, Y: y}
	case api.AccountTypeEcdsa:
		owner, err := f.owner(ctx, s)
		if err != nil {
			return nil, err
		}
		req.Owner = owner
	}

	return s.ResolveAccount(ctx, req)
}

func (f *flags) owner(ctx context.Context, s *api.Server) (common.Address, error) {
	if f.v.GetBool(burnerFlag) {
		return burner.NewService(s.Config.Burner, burner.DefaultScryptParams()).Address(ctx)
	}

	owner := f.v.GetString(ownerFlag)
	if owner == "" {
		return common.Address{}, ErrMissingOwner
	}
	if !common.IsHexAddress(owner) {
		return common.Address{}, errors.Errorf("invalid --%s %q", ownerFlag, owner)
	}

	return common.HexToAddress(owner), nil
}

// parseQuantity accepts decimal or 0x prefixed hex, leading zeros included.
func parseQuantity(value string) (*big.Int, error) {
	var (
		n  *big.Int
		ok bool
	)
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		n, ok = new(big.Int).SetString(value[2:], 16)
	} else {
		n, ok = new(big.Int).SetString(value, 10)
	}

	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, errors.Errorf("%q is not an unsigned 256 bit integer", value)
	}

	return n, nil
}
