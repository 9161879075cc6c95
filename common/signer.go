package common

import (
	"github.com/gagliardetto/solana-go"
)

type Signer interface {
	Sign(message []byte) (solana.Signature, error)
	PublicKey() solana.PublicKey
	Destroy()
}
