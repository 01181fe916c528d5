package registry

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/frak-labs/go-smart-wallet/internal/config"
)

type fileAddresses struct {
	EntryPoint        string `toml:"entry_point"`
	Factory           string `toml:"factory"`
	AccountLogic      string `toml:"account_logic"`
	WebAuthnValidator string `toml:"webauthn_validator"`
	EcdsaValidator    string `toml:"ecdsa_validator"`
}

// registryFile is the TOML layout of REGISTRY_FILE:
//
//	rip7212_chain_ids = [8453, 137]
//
//	[default]
//	factory = "0x..."
//
//	[chains.42161]
//	ecdsa_validator = "0x..."
type registryFile struct {
	RIP7212ChainIDs []uint64                 `toml:"rip7212_chain_ids"`
	Default         fileAddresses            `toml:"default"`
	Chains          map[string]fileAddresses `toml:"chains"`
}

// FromConfig builds the registry from, in increasing precedence: built-in
// defaults, the optional TOML file and the explicit config overrides.
func FromConfig(cfg config.Registry) (*Registry, error) {
	fallback := DefaultAddresses
	rip7212 := DefaultRIP7212ChainIDs

	var file registryFile
	if cfg.File != "" {
		meta, err := toml.DecodeFile(cfg.File, &file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode registry file %s", cfg.File)
		}

		for _, key := range meta.Undecoded() {
			log.Warn().Str("file", cfg.File).Str("key", key.String()).Msg("Ignoring unknown registry key")
		}

		if fallback, err = overlay(fallback, file.Default); err != nil {
			return nil, errors.Wrap(err, "invalid default addresses in registry file")
		}

		if len(file.RIP7212ChainIDs) > 0 {
			rip7212 = file.RIP7212ChainIDs
		}
	}

	fallback, err := overlay(fallback, fileAddresses{
		EntryPoint:        cfg.EntryPointAddress,
		Factory:           cfg.FactoryAddress,
		AccountLogic:      cfg.AccountLogicAddress,
		WebAuthnValidator: cfg.WebAuthnValidatorAddress,
		EcdsaValidator:    cfg.EcdsaValidatorAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid address override")
	}

	if len(cfg.RIP7212ChainIDs) > 0 {
		rip7212 = cfg.RIP7212ChainIDs
	}

	reg := New(fallback, rip7212)

	for key, chainAddrs := range file.Chains {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid chain id %q in registry file", key)
		}

		addrs, err := overlay(fallback, chainAddrs)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid addresses for chain %d", chainID)
		}

		reg.SetChain(chainID, addrs)
	}

	return reg, nil
}

func overlay(base Addresses, over fileAddresses) (Addresses, error) {
	fields := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"entry_point", over.EntryPoint, &base.EntryPoint},
		{"factory", over.Factory, &base.Factory},
		{"account_logic", over.AccountLogic, &base.AccountLogic},
		{"webauthn_validator", over.WebAuthnValidator, &base.WebAuthnValidator},
		{"ecdsa_validator", over.EcdsaValidator, &base.EcdsaValidator},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		if !common.IsHexAddress(f.value) {
			return Addresses{}, fmt.Errorf("%s is not a valid address: %q", f.name, f.value)
		}

		*f.dst = common.HexToAddress(f.value)
	}

	return base, nil
}
