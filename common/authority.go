package common

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidAuthority = errors.New("invalid authority")

// Authority is proof that the holder may act for Key. It is only produced by
// verifying a signature or by re-deriving a program address from its seeds.
type Authority struct {
	key     solana.PublicKey
	program bool
	valid   bool
}

func (a Authority) Key() solana.PublicKey {
	return a.key
}

func (a Authority) IsProgram() bool {
	return a.program
}

func (a Authority) Valid() bool {
	return a.valid && !a.key.IsZero()
}

func (a Authority) String() string {
	return a.key.String()
}

func NewSignedAuthority(key solana.PublicKey, message []byte, signature solana.Signature) (Authority, error) {
	if err := VerifySignature(key, message, signature); err != nil {
		return Authority{}, err
	}
	return Authority{key: key, valid: true}, nil
}

func NewSignerAuthority(signer Signer, message []byte) (Authority, error) {
	signature, err := signer.Sign(message)
	if err != nil {
		return Authority{}, fmt.Errorf("failed to sign: %w", err)
	}
	return NewSignedAuthority(signer.PublicKey(), message, signature)
}

// NewProgramAuthority re-derives the program address of seeds and bump; the
// address has no private key and the result is the delegated signer for it
func NewProgramAuthority(programID solana.PublicKey, seeds [][]byte, bump uint8) (Authority, error) {
	full := make([][]byte, 0, len(seeds)+1)
	full = append(full, seeds...)
	full = append(full, []byte{bump})

	address, err := solana.CreateProgramAddress(full, programID)
	if err != nil {
		return Authority{}, fmt.Errorf("%w: %s", ErrInvalidAuthority, err.Error())
	}
	return Authority{key: address, program: true, valid: true}, nil
}
