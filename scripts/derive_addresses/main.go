package main

import (
	"flag"
	"fmt"

	"github.com/dan13ram/fundraiser-escrow/common"
)

func main() {
	var programID string
	var maker string
	var mint string
	var contributor string
	flag.StringVar(&programID, "program", "", "program id")
	flag.StringVar(&maker, "maker", "", "maker address")
	flag.StringVar(&mint, "mint", "", "mint address, to derive the vault")
	flag.StringVar(&contributor, "contributor", "", "contributor address, to derive the contributor record")
	flag.Parse()

	if programID == "" || maker == "" {
		fmt.Printf("program and maker are required\n")
		return
	}

	program, err := common.ParseAddress(programID)
	if err != nil {
		fmt.Printf("invalid program: %v\n", err)
		return
	}
	makerKey, err := common.ParseAddress(maker)
	if err != nil {
		fmt.Printf("invalid maker: %v\n", err)
		return
	}

	fundraiser, bump, err := common.FundraiserAddress(program, makerKey)
	if err != nil {
		fmt.Printf("error deriving fundraiser address: %v\n", err)
		return
	}
	fmt.Printf("Fundraiser: %s (bump %d)\n", fundraiser, bump)

	if mint != "" {
		mintKey, err := common.ParseAddress(mint)
		if err != nil {
			fmt.Printf("invalid mint: %v\n", err)
			return
		}
		vault, err := common.TokenAccountAddress(fundraiser, mintKey)
		if err != nil {
			fmt.Printf("error deriving vault address: %v\n", err)
			return
		}
		fmt.Printf("Vault: %s\n", vault)
	}

	if contributor != "" {
		contributorKey, err := common.ParseAddress(contributor)
		if err != nil {
			fmt.Printf("invalid contributor: %v\n", err)
			return
		}
		record, bump, err := common.ContributorAddress(program, fundraiser, contributorKey)
		if err != nil {
			fmt.Printf("error deriving contributor address: %v\n", err)
			return
		}
		fmt.Printf("Contributor: %s (bump %d)\n", record, bump)
	}
}
