// Package burner keeps the burner key used by recovery and ECDSA accounts:
// a BIP-39 mnemonic sealed in a keystore v3 file, from which one secp256k1
// key is derived along a BIP-32 path.
package burner

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/config"
	"github/frak-labs/go-smart-wallet/internal/util"
)

const (
	MinPasswordLength = 8
	keystoreFileMode  = 0o600
	keystoreDirMode   = 0o700
)

var (
	ErrKeystoreExists   = errors.New("keystore already exists")
	ErrKeystoreNotFound = errors.New("keystore not found")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrAddressMismatch  = errors.New("derived address does not match keystore address")
)

// Service manages the burner keystore file.
type Service interface {
	// Create generates a mnemonic, seals it with password and returns the
	// derived burner address. Fails when a keystore already exists.
	Create(ctx context.Context, password string) (common.Address, error)

	// Import seals an existing mnemonic.
	Import(ctx context.Context, mnemonic string, password string) (common.Address, error)

	// Address returns the burner address recorded in the keystore, without
	// decrypting it.
	Address(ctx context.Context) (common.Address, error)

	// Unlock decrypts the keystore and returns the burner signer.
	Unlock(ctx context.Context, password string) (*backend.LocalSigner, error)

	Exists() (bool, error)
}

type service struct {
	path           string
	derivationPath string
	params         ScryptParams

	mu sync.Mutex
}

// NewService creates a keystore backed Service.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(cfg config.Burner, params ScryptParams) Service {
	derivationPath := cfg.DerivationPath
	if derivationPath == "" {
		derivationPath = DefaultDerivationPath
	}

	return &service{
		path:           cfg.KeystorePath,
		derivationPath: derivationPath,
		params:         params,
	}
}

func (s *service) Create(ctx context.Context, password string) (common.Address, error) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		return common.Address{}, err
	}

	return s.Import(ctx, mnemonic, password)
}

func (s *service) Import(ctx context.Context, mnemonic string, password string) (common.Address, error) {
	log := util.LogFromContext(ctx).With().Str("component", "burner").Logger()

	if len(password) < MinPasswordLength {
		return common.Address{}, ErrPasswordTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Exists()
	if err != nil {
		return common.Address{}, err
	}
	if exists {
		return common.Address{}, ErrKeystoreExists
	}

	address, err := s.deriveAddress(mnemonic)
	if err != nil {
		return common.Address{}, err
	}

	ks, err := Encrypt(mnemonic, password, s.params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encrypt mnemonic")
		return common.Address{}, errors.Wrap(err, "failed to encrypt mnemonic")
	}
	ks.Address = address.Hex()

	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to marshal keystore JSON")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), keystoreDirMode); err != nil {
		return common.Address{}, errors.Wrap(err, "failed to create keystore directory")
	}

	if err := os.WriteFile(s.path, data, keystoreFileMode); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to write keystore")
		return common.Address{}, errors.Wrap(err, "failed to write keystore")
	}

	log.Info().Str("address", address.Hex()).Msg("Burner keystore created")

	return address, nil
}

func (s *service) Address(_ context.Context) (common.Address, error) {
	ks, err := s.read()
	if err != nil {
		return common.Address{}, err
	}

	if !common.IsHexAddress(ks.Address) {
		return common.Address{}, errors.Wrap(ErrUnsupportedStore, "keystore has no address")
	}

	return common.HexToAddress(ks.Address), nil
}

func (s *service) Unlock(ctx context.Context, password string) (*backend.LocalSigner, error) {
	log := util.LogFromContext(ctx).With().Str("component", "burner").Logger()

	ks, err := s.read()
	if err != nil {
		return nil, err
	}

	mnemonic, err := Decrypt(ks, password)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to decrypt burner keystore")
		return nil, errors.Wrap(err, "failed to decrypt keystore")
	}

	key, err := s.deriveKey(mnemonic)
	if err != nil {
		return nil, err
	}

	signer, err := backend.NewLocalSigner(key)
	if err != nil {
		return nil, err
	}

	if ks.Address != "" && common.HexToAddress(ks.Address) != signer.Address() {
		return nil, ErrAddressMismatch
	}

	return signer, nil
}

func (s *service) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, errors.Wrap(err, "failed to check keystore existence")
}

func (s *service) read() (*KeystoreJSON, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeystoreNotFound
		}

		return nil, errors.Wrap(err, "failed to read keystore")
	}

	var ks KeystoreJSON
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore JSON")
	}

	return &ks, nil
}

func (s *service) deriveKey(mnemonic string) (*ecdsa.PrivateKey, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	return DeriveKey(seed, s.derivationPath)
}

func (s *service) deriveAddress(mnemonic string) (common.Address, error) {
	key, err := s.deriveKey(mnemonic)
	if err != nil {
		return common.Address{}, err
	}

	return crypto.PubkeyToAddress(key.PublicKey), nil
}
