package common

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

func IsValidAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

func ParseAddress(address string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", address, err)
	}
	return key, nil
}

func FundraiserSeeds(maker solana.PublicKey) [][]byte {
	return [][]byte{[]byte(FundraiserSeed), maker.Bytes()}
}

func ContributorSeeds(fundraiser solana.PublicKey, contributor solana.PublicKey) [][]byte {
	return [][]byte{[]byte(ContributorSeed), fundraiser.Bytes(), contributor.Bytes()}
}

// FundraiserAddress derives the fundraiser record address of a maker and its bump
func FundraiserAddress(programID solana.PublicKey, maker solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(FundraiserSeeds(maker), programID)
}

// ContributorAddress derives the contributor record address for a fundraiser and its bump
func ContributorAddress(programID solana.PublicKey, fundraiser solana.PublicKey, contributor solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(ContributorSeeds(fundraiser, contributor), programID)
}

// TokenAccountAddress is the associated token account address of an (owner, mint) pair
func TokenAccountAddress(owner solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return address, err
}
