package account

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ERC6492MagicSuffix terminates a signature of a counterfactual account.
var ERC6492MagicSuffix = common.FromHex("0x6492649264926492649264926492649264926492649264926492649264926492")

var erc6492Args = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("bytes")},
	{Type: mustType("bytes")},
}

// WrapERC6492 wraps sig as abi.encode(factory, factoryData, sig) ‖ magic so
// a verifier can deploy the account before checking it. Accounts without
// factory args get sig back unchanged.
func WrapERC6492(ctx context.Context, acc SmartAccount, sig []byte) ([]byte, error) {
	args, err := acc.GetFactoryArgs(ctx)
	if err != nil {
		return nil, err
	}
	if args.IsEmpty() {
		return sig, nil
	}

	encoded, err := erc6492Args.Pack(*args.Factory, args.FactoryData, sig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode erc-6492 signature")
	}

	return append(encoded, ERC6492MagicSuffix...), nil
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}

	return typ
}
