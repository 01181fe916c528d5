package kernel

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kernel v2 account execution surface.
const accountABIJSON = `[
	{"type":"function","name":"execute","stateMutability":"payable","outputs":[],"inputs":[
		{"name":"to","type":"address"},
		{"name":"value","type":"uint256"},
		{"name":"data","type":"bytes"},
		{"name":"operation","type":"uint8"}]},
	{"type":"function","name":"executeBatch","stateMutability":"payable","outputs":[],"inputs":[
		{"name":"calls","type":"tuple[]","components":[
			{"name":"to","type":"address"},
			{"name":"value","type":"uint256"},
			{"name":"data","type":"bytes"}]}]},
	{"type":"function","name":"executeDelegateCall","stateMutability":"payable","outputs":[],"inputs":[
		{"name":"to","type":"address"},
		{"name":"data","type":"bytes"}]},
	{"type":"function","name":"initialize","stateMutability":"payable","outputs":[],"inputs":[
		{"name":"_defaultValidator","type":"address"},
		{"name":"_data","type":"bytes"}]},
	{"type":"function","name":"eip712Domain","stateMutability":"view","inputs":[],"outputs":[
		{"name":"fields","type":"bytes1"},
		{"name":"name","type":"string"},
		{"name":"version","type":"string"},
		{"name":"chainId","type":"uint256"},
		{"name":"verifyingContract","type":"address"},
		{"name":"salt","type":"bytes32"},
		{"name":"extensions","type":"uint256[]"}]}
]`

const factoryABIJSON = `[
	{"type":"function","name":"createAccount","stateMutability":"payable","inputs":[
		{"name":"_implementation","type":"address"},
		{"name":"_data","type":"bytes"},
		{"name":"_index","type":"uint256"}],
	 "outputs":[{"name":"proxy","type":"address"}]}
]`

// ERC-4337 v0.6 entry point, only what the account layer reads.
const entryPointABIJSON = `[
	{"type":"function","name":"getSenderAddress","stateMutability":"nonpayable","outputs":[],"inputs":[
		{"name":"initCode","type":"bytes"}]},
	{"type":"function","name":"getNonce","stateMutability":"view","inputs":[
		{"name":"sender","type":"address"},
		{"name":"key","type":"uint192"}],
	 "outputs":[{"name":"nonce","type":"uint256"}]},
	{"type":"error","name":"SenderAddressResult","inputs":[
		{"name":"sender","type":"address"}]}
]`

var (
	AccountABI    = mustParseABI(accountABIJSON)
	FactoryABI    = mustParseABI(factoryABIJSON)
	EntryPointABI = mustParseABI(entryPointABIJSON)
)

// executeSelectors are the selectors of the account's own execution functions.
var executeSelectors = func() map[[4]byte]struct{} {
	set := make(map[[4]byte]struct{})
	for _, name := range []string{"execute", "executeBatch", "executeDelegateCall"} {
		var id [4]byte
		copy(id[:], AccountABI.Methods[name].ID)
		set[id] = struct{}{}
	}
	return set
}()

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}

	return parsed
}
