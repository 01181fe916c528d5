package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kat-co/vala"
)

// Validate checks the parts of the config every command relies on.
func (s Server) Validate() error {
	return vala.BeginValidation().Validate(
		vala.GreaterThan(len(s.Chain.RPCURLs), 0, "Chain.RPCURLs"),
		vala.GreaterThan(int(s.Pairing.PingInterval), 0, "Pairing.PingInterval"),
		vala.GreaterThan(s.Pairing.MaxMissedPongs, 0, "Pairing.MaxMissedPongs"),
		optionalAddress(s.Registry.EntryPointAddress, "Registry.EntryPointAddress"),
		optionalAddress(s.Registry.FactoryAddress, "Registry.FactoryAddress"),
		optionalAddress(s.Registry.AccountLogicAddress, "Registry.AccountLogicAddress"),
		optionalAddress(s.Registry.WebAuthnValidatorAddress, "Registry.WebAuthnValidatorAddress"),
		optionalAddress(s.Registry.EcdsaValidatorAddress, "Registry.EcdsaValidatorAddress"),
	).Check()
}

func optionalAddress(value string, paramName string) vala.Checker {
	return func() (bool, string) {
		if value == "" || common.IsHexAddress(value) {
			return true, ""
		}

		return false, fmt.Sprintf("parameter %s is not a valid hex address: %q", paramName, value)
	}
}
