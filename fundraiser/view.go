package fundraiser

import (
	"context"
	"fmt"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/gagliardetto/solana-go"
)

type FundraiserView struct {
	*models.Fundraiser
	Status          string `json:"status"`
	VaultBalance    uint64 `json:"vault_balance"`
	Decimals        uint8  `json:"decimals"`
	AmountToRaiseUI string `json:"amount_to_raise_ui"`
	CurrentAmountUI string `json:"current_amount_ui"`
	EndsAt          int64  `json:"ends_at"`
}

type ContributorView struct {
	*models.Contributor
	AmountUI string `json:"amount_ui"`
}

func (p *Program) Fundraiser(ctx context.Context, address solana.PublicKey) (*FundraiserView, error) {
	fundraiser, err := p.store.FindFundraiser(ctx, address.String())
	if err != nil {
		return nil, err
	}

	vaultAddress, err := solana.PublicKeyFromBase58(fundraiser.Vault)
	if err != nil {
		return nil, fmt.Errorf("invalid vault on fundraiser: %w", err)
	}
	vault, err := p.ledger.Account(ctx, vaultAddress)
	if err != nil {
		return nil, err
	}

	mint, err := solana.PublicKeyFromBase58(fundraiser.MintToRaise)
	if err != nil {
		return nil, fmt.Errorf("invalid mint on fundraiser: %w", err)
	}
	mintAccount, err := p.ledger.Mint(ctx, mint)
	if err != nil {
		return nil, err
	}

	return &FundraiserView{
		Fundraiser:      fundraiser,
		Status:          p.status(fundraiser, vault.Amount),
		VaultBalance:    vault.Amount,
		Decimals:        mintAccount.Decimals,
		AmountToRaiseUI: common.FormatAmount(fundraiser.AmountToRaise, mintAccount.Decimals),
		CurrentAmountUI: common.FormatAmount(fundraiser.CurrentAmount, mintAccount.Decimals),
		EndsAt:          fundraiser.TimeStarted + int64(fundraiser.Duration)*common.SecondsToDays,
	}, nil
}

func (p *Program) status(fundraiser *models.Fundraiser, vaultBalance uint64) string {
	if vaultBalance >= fundraiser.AmountToRaise {
		return models.FundraiserStatusTargetMet
	}
	if common.ElapsedDays(p.now().Unix(), fundraiser.TimeStarted) >= int64(fundraiser.Duration) {
		return models.FundraiserStatusEnded
	}
	return models.FundraiserStatusOpen
}

func (p *Program) Contributor(ctx context.Context, fundraiserAddress solana.PublicKey, contributor solana.PublicKey) (*ContributorView, error) {
	address, _, err := common.ContributorAddress(p.programID, fundraiserAddress, contributor)
	if err != nil {
		return nil, fmt.Errorf("failed to derive contributor address: %w", err)
	}

	record, err := p.store.FindContributor(ctx, address.String())
	if err != nil {
		return nil, err
	}

	view := &ContributorView{Contributor: record, AmountUI: fmt.Sprintf("%d", record.Amount)}

	fundraiser, err := p.store.FindFundraiser(ctx, fundraiserAddress.String())
	if err != nil {
		// the fundraiser may already be closed, raw units are still correct
		return view, nil
	}
	mint, err := solana.PublicKeyFromBase58(fundraiser.MintToRaise)
	if err != nil {
		return view, nil
	}
	if mintAccount, err := p.ledger.Mint(ctx, mint); err == nil {
		view.AmountUI = common.FormatAmount(record.Amount, mintAccount.Decimals)
	}
	return view, nil
}
