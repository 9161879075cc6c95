package common

import (
	"crypto/ed25519"
	"fmt"

	"github.com/cosmos/go-bip39"
	"github.com/gagliardetto/solana-go"
)

type MnemonicSigner struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

var _ Signer = &MnemonicSigner{}

// NewMnemonic returns a fresh 24 word mnemonic
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("failed to create entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// PrivateKeyFromMnemonic derives the ed25519 key from the first 32 bytes of the bip39 seed
func PrivateKeyFromMnemonic(mnemonic string) (solana.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, DefaultBIP39Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create seed: %w", err)
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])), nil
}

func NewMnemonicSigner(mnemonic string) (*MnemonicSigner, error) {
	privateKey, err := PrivateKeyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("failed to create private key: %w", err)
	}

	return &MnemonicSigner{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

func (s *MnemonicSigner) Destroy() {
	// nothing to do
}

func (s *MnemonicSigner) Sign(message []byte) (solana.Signature, error) {
	return s.privateKey.Sign(message)
}

func (s *MnemonicSigner) PublicKey() solana.PublicKey {
	return s.publicKey
}
