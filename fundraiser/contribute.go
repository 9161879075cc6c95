package fundraiser

import (
	"context"
	"errors"
	"fmt"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/events"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

// Contribute moves amount from the contributor's token account into the vault
// and records it against the contributor's cap
func (p *Program) Contribute(ctx context.Context, contributor common.Authority, fundraiserAddress solana.PublicKey, amount uint64) (*models.Contributor, error) {
	if !contributor.Valid() || contributor.IsProgram() {
		return nil, ErrUnauthorized
	}

	contributorAddress, bump, err := common.ContributorAddress(p.programID, fundraiserAddress, contributor.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to derive contributor address: %w", err)
	}

	var record *models.Contributor
	var fundraiser *models.Fundraiser
	err = p.store.Atomic(ctx, ResourceID(fundraiserAddress.String()), func(ctx context.Context) error {
		var err error
		fundraiser, err = p.store.FindFundraiser(ctx, fundraiserAddress.String())
		if err != nil {
			return err
		}

		mint, err := solana.PublicKeyFromBase58(fundraiser.MintToRaise)
		if err != nil {
			return fmt.Errorf("invalid mint on fundraiser: %w", err)
		}
		mintAccount, err := p.ledger.Mint(ctx, mint)
		if err != nil {
			return err
		}
		units, err := common.UnitsPerToken(mintAccount.Decimals)
		if err != nil {
			return err
		}

		maximum := common.MaxContribution(fundraiser.AmountToRaise)

		if amount < units {
			return ErrContributionTooSmall
		}
		if amount > maximum {
			return ErrContributionTooBig
		}
		if common.ElapsedDays(p.now().Unix(), fundraiser.TimeStarted) >= int64(fundraiser.Duration) {
			return ErrFundraiserEnded
		}

		record = &models.Contributor{
			Address:     contributorAddress.String(),
			Fundraiser:  fundraiser.Address,
			Contributor: contributor.Key().String(),
			Bump:        bump,
		}
		existing, err := p.store.FindContributor(ctx, contributorAddress.String())
		if err == nil {
			record = existing
		} else if !errors.Is(err, ErrContributorNotFound) {
			return err
		}

		if record.Amount > maximum || amount > maximum-record.Amount {
			return ErrMaximumContributionsReached
		}

		source, err := common.TokenAccountAddress(contributor.Key(), mint)
		if err != nil {
			return fmt.Errorf("failed to derive contributor token account: %w", err)
		}
		vault, err := solana.PublicKeyFromBase58(fundraiser.Vault)
		if err != nil {
			return fmt.Errorf("invalid vault on fundraiser: %w", err)
		}

		if err := p.ledger.Transfer(ctx, source, vault, contributor, amount, "contribute"); err != nil {
			return err
		}

		if err := p.store.AddToCurrentAmount(ctx, fundraiser.Address, int64(amount)); err != nil {
			return err
		}
		if err := p.store.AddContribution(ctx, record, amount); err != nil {
			return err
		}

		record.Amount += amount
		record.UpdatedAt = p.now()
		fundraiser.CurrentAmount += amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("fundraiser", fundraiser.Address).
		WithField("contributor", record.Contributor).
		WithField("amount", amount).
		WithField("total", fundraiser.CurrentAmount).
		Info("[PROGRAM] Contributed to fundraiser")

	p.publish(ctx, events.NewEvent(models.EventFundraiserContributed, fundraiser.Address, record.Contributor, amount, fundraiser.CurrentAmount))

	return record, nil
}
