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

type RefundResult struct {
	Fundraiser  string `json:"fundraiser"`
	Contributor string `json:"contributor"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
	Remaining   uint64 `json:"remaining"`
}

// Refund returns the caller's recorded contributions from the vault after
// the fundraiser ended without meeting its target
func (p *Program) Refund(ctx context.Context, contributor common.Authority, fundraiserAddress solana.PublicKey) (*RefundResult, error) {
	if !contributor.Valid() || contributor.IsProgram() {
		return nil, ErrUnauthorized
	}

	contributorAddress, _, err := common.ContributorAddress(p.programID, fundraiserAddress, contributor.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to derive contributor address: %w", err)
	}

	var result *RefundResult
	err = p.store.Atomic(ctx, ResourceID(fundraiserAddress.String()), func(ctx context.Context) error {
		fundraiser, err := p.store.FindFundraiser(ctx, fundraiserAddress.String())
		if err != nil {
			return err
		}

		if common.ElapsedDays(p.now().Unix(), fundraiser.TimeStarted) < int64(fundraiser.Duration) {
			return ErrFundraiserNotEnded
		}

		vaultAddress, err := solana.PublicKeyFromBase58(fundraiser.Vault)
		if err != nil {
			return fmt.Errorf("invalid vault on fundraiser: %w", err)
		}
		vault, err := p.ledger.Account(ctx, vaultAddress)
		if err != nil {
			return err
		}
		if vault.Amount >= fundraiser.AmountToRaise {
			return ErrTargetMet
		}

		record, err := p.store.FindContributor(ctx, contributorAddress.String())
		if err != nil {
			return err
		}

		maker, err := solana.PublicKeyFromBase58(fundraiser.Maker)
		if err != nil {
			return fmt.Errorf("invalid maker on fundraiser: %w", err)
		}
		vaultAuthority, err := common.NewProgramAuthority(p.programID, common.FundraiserSeeds(maker), fundraiser.Bump)
		if err != nil {
			return fmt.Errorf("failed to derive vault authority: %w", err)
		}

		mint, err := solana.PublicKeyFromBase58(fundraiser.MintToRaise)
		if err != nil {
			return fmt.Errorf("invalid mint on fundraiser: %w", err)
		}
		destination, err := p.ledger.CreateAccount(ctx, contributor.Key(), mint)
		if err != nil {
			return err
		}
		destinationAddress, err := solana.PublicKeyFromBase58(destination.Address)
		if err != nil {
			return fmt.Errorf("invalid contributor token account: %w", err)
		}

		if err := p.ledger.Transfer(ctx, vaultAddress, destinationAddress, vaultAuthority, record.Amount, "refund"); err != nil {
			return err
		}

		if err := p.store.AddToCurrentAmount(ctx, fundraiser.Address, -int64(record.Amount)); err != nil {
			return err
		}
		if err := p.store.DeleteContributor(ctx, record.Address); err != nil {
			return err
		}

		result = &RefundResult{
			Fundraiser:  fundraiser.Address,
			Contributor: record.Contributor,
			Destination: destination.Address,
			Amount:      record.Amount,
			Remaining:   fundraiser.CurrentAmount - record.Amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("fundraiser", result.Fundraiser).
		WithField("contributor", result.Contributor).
		WithField("amount", result.Amount).
		Info("[PROGRAM] Refunded contributor")

	p.publish(ctx, events.NewEvent(models.EventFundraiserRefunded, result.Fundraiser, result.Contributor, result.Amount, result.Remaining))

	return result, nil
}
