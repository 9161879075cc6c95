package app

import (
	"fmt"

	"github.com/dan13ram/fundraiser-escrow/common"
)

// CreateSigner builds the operator signer, the mnemonic wins over the KMS key
func CreateSigner(mnemonic string, gcpKmsKeyName string) (common.Signer, error) {
	if mnemonic == "" && gcpKmsKeyName == "" {
		return nil, fmt.Errorf("both Mnemonic and GcpKmsKeyName are empty")
	}
	if mnemonic != "" {
		return common.NewMnemonicSigner(mnemonic)
	}

	return common.NewGcpKmsSigner(gcpKmsKeyName)
}
