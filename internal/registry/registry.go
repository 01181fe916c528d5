package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Addresses are the contracts a Kernel v2 smart account depends on for one chain.
type Addresses struct {
	EntryPoint        common.Address
	Factory           common.Address
	AccountLogic      common.Address
	WebAuthnValidator common.Address
	EcdsaValidator    common.Address
}

// DefaultAddresses is the Kernel v2.4 deployment used with the v0.6 entry point.
// The deployment is deterministic, so the same addresses apply on every chain.
var DefaultAddresses = Addresses{
	EntryPoint:        common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789"),
	Factory:           common.HexToAddress("0x5de4839a76cf55d0c90e2061ef4386d962E15ae3"),
	AccountLogic:      common.HexToAddress("0xd3082872F8B06073A021b4602e022d5A070d7cfC"),
	WebAuthnValidator: common.HexToAddress("0x07540183E6BE3b15B3bD50798385095Ff3D55cD5"),
	EcdsaValidator:    common.HexToAddress("0xd9AB5096a832b9ce79914329DAEE236f8Eea0390"),
}

// DefaultRIP7212ChainIDs are the chains exposing the P-256 verification precompile.
var DefaultRIP7212ChainIDs = []uint64{
	10,       // optimism
	137,      // polygon
	8453,     // base
	42161,    // arbitrum one
	80002,    // polygon amoy
	84532,    // base sepolia
	421614,   // arbitrum sepolia
	11155420, // optimism sepolia
}

// Registry is a read-only address table, keyed by chain id with a shared fallback.
type Registry struct {
	mu       sync.RWMutex
	fallback Addresses
	chains   map[uint64]Addresses
	rip7212  map[uint64]struct{}
}

func New(fallback Addresses, rip7212ChainIDs []uint64) *Registry {
	r := &Registry{
		fallback: fallback,
		chains:   make(map[uint64]Addresses),
		rip7212:  make(map[uint64]struct{}, len(rip7212ChainIDs)),
	}

	for _, id := range rip7212ChainIDs {
		r.rip7212[id] = struct{}{}
	}

	return r
}

// Default returns a registry holding DefaultAddresses and DefaultRIP7212ChainIDs.
func Default() *Registry {
	return New(DefaultAddresses, DefaultRIP7212ChainIDs)
}

// SetChain overrides the addresses of one chain.
func (r *Registry) SetChain(chainID uint64, addrs Addresses) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chains[chainID] = addrs
}

// ForChain returns the addresses of chainID, or the fallback if the chain has no override.
func (r *Registry) ForChain(chainID uint64) Addresses {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if addrs, ok := r.chains[chainID]; ok {
		return addrs
	}

	return r.fallback
}

// IsRIP7212Supported reports whether the chain has the P-256 precompile, which
// lets the WebAuthn validator skip its fallback verifier.
func (r *Registry) IsRIP7212Supported(chainID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rip7212[chainID]
	return ok
}
