package fundraiser

import (
	"context"
	"fmt"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/events"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

type Withdrawal struct {
	Fundraiser  string `json:"fundraiser"`
	Maker       string `json:"maker"`
	Mint        string `json:"mint"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

// CheckContributions pays the whole vault to the maker once the target is
// met and closes the fundraiser
func (p *Program) CheckContributions(ctx context.Context, maker common.Authority, fundraiserAddress solana.PublicKey) (*Withdrawal, error) {
	if !maker.Valid() || maker.IsProgram() {
		return nil, ErrUnauthorized
	}

	var withdrawal *Withdrawal
	err := p.store.Atomic(ctx, ResourceID(fundraiserAddress.String()), func(ctx context.Context) error {
		fundraiser, err := p.store.FindFundraiser(ctx, fundraiserAddress.String())
		if err != nil {
			return err
		}

		vaultAuthority, err := common.NewProgramAuthority(p.programID, common.FundraiserSeeds(maker.Key()), fundraiser.Bump)
		if err != nil || vaultAuthority.Key().String() != fundraiser.Address {
			return ErrUnauthorized
		}

		vaultAddress, err := solana.PublicKeyFromBase58(fundraiser.Vault)
		if err != nil {
			return fmt.Errorf("invalid vault on fundraiser: %w", err)
		}
		vault, err := p.ledger.Account(ctx, vaultAddress)
		if err != nil {
			return err
		}

		if vault.Amount < fundraiser.AmountToRaise {
			return ErrTargetNotMet
		}

		mint, err := solana.PublicKeyFromBase58(fundraiser.MintToRaise)
		if err != nil {
			return fmt.Errorf("invalid mint on fundraiser: %w", err)
		}
		destination, err := p.ledger.CreateAccount(ctx, maker.Key(), mint)
		if err != nil {
			return err
		}
		destinationAddress, err := solana.PublicKeyFromBase58(destination.Address)
		if err != nil {
			return fmt.Errorf("invalid maker token account: %w", err)
		}

		if err := p.ledger.Transfer(ctx, vaultAddress, destinationAddress, vaultAuthority, vault.Amount, "withdraw"); err != nil {
			return err
		}

		if err := p.store.DeleteFundraiser(ctx, fundraiser.Address); err != nil {
			return err
		}

		withdrawal = &Withdrawal{
			Fundraiser:  fundraiser.Address,
			Maker:       fundraiser.Maker,
			Mint:        fundraiser.MintToRaise,
			Destination: destination.Address,
			Amount:      vault.Amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("fundraiser", withdrawal.Fundraiser).
		WithField("maker", withdrawal.Maker).
		WithField("amount", withdrawal.Amount).
		Info("[PROGRAM] Withdrew fundraiser vault")

	p.publish(ctx, events.NewEvent(models.EventFundraiserWithdrawn, withdrawal.Fundraiser, withdrawal.Maker, withdrawal.Amount, 0))

	return withdrawal, nil
}
