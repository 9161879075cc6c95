package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dan13ram/fundraiser-escrow/api"
	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/common"
)

// Signs a request envelope with MNEMONIC or, when unset, the GCP_KMS_KEY_NAME key
func main() {
	var operation string
	var fields string
	flag.StringVar(&operation, "op", "", "operation to sign, e.g. contribute")
	flag.StringVar(&fields, "fields", "", "comma separated operation fields, in order")
	flag.Parse()

	if operation == "" {
		log.Fatalf("op is required")
	}

	signer, err := app.CreateSigner(os.Getenv("MNEMONIC"), os.Getenv("GCP_KMS_KEY_NAME"))
	if err != nil {
		log.Fatalf("failed to create signer: %v", err)
	}
	defer signer.Destroy()

	var parts []string
	if fields != "" {
		parts = strings.Split(fields, ",")
	}

	timestamp := time.Now().Unix()
	signature, err := signer.Sign(common.SigningMessage(operation, timestamp, parts...))
	if err != nil {
		log.Fatalf("failed to sign: %v", err)
	}

	envelope, _ := json.MarshalIndent(api.Envelope{
		Signer:    signer.PublicKey().String(),
		Timestamp: timestamp,
		Signature: signature.String(),
	}, "", "  ")
	fmt.Println(string(envelope))
}
