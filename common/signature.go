package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidSignature = errors.New("invalid signature")

// operations a signed request can authorize
const (
	OperationInitialize         = "initialize"
	OperationContribute         = "contribute"
	OperationCheckContributions = "check_contributions"
	OperationRefund             = "refund"
	OperationCreateMint         = "create_mint"
	OperationMintTo             = "mint_to"
)

// SigningMessage is the canonical byte string a caller signs for an operation:
// domain, operation, fields and timestamp joined by ":".
func SigningMessage(operation string, timestamp int64, fields ...string) []byte {
	parts := make([]string, 0, len(fields)+3)
	parts = append(parts, SigningDomain, operation)
	parts = append(parts, fields...)
	parts = append(parts, strconv.FormatInt(timestamp, 10))
	return []byte(strings.Join(parts, ":"))
}

func ParseSignature(signature string) (solana.Signature, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err.Error())
	}
	return sig, nil
}

func VerifySignature(signer solana.PublicKey, message []byte, signature solana.Signature) error {
	if signer.IsZero() || !signature.Verify(signer, message) {
		return ErrInvalidSignature
	}
	return nil
}
