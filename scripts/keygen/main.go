package main

import (
	"fmt"
	"log"

	"github.com/dan13ram/fundraiser-escrow/common"
)

func main() {
	mnemonic, err := common.NewMnemonic()
	if err != nil {
		log.Fatalf("failed to create mnemonic: %v", err)
	}

	signer, err := common.NewMnemonicSigner(mnemonic)
	if err != nil {
		log.Fatalf("failed to create signer: %v", err)
	}
	defer signer.Destroy()

	fmt.Println("Mnemonic: ", mnemonic)
	fmt.Println("Address: ", signer.PublicKey())
}
