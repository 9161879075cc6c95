package fundraiser

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/events"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

// Initialize opens a fundraiser for maker and creates its empty vault
func (p *Program) Initialize(ctx context.Context, maker common.Authority, mint solana.PublicKey, amount uint64, duration uint16) (*models.Fundraiser, error) {
	if !maker.Valid() || maker.IsProgram() {
		return nil, ErrUnauthorized
	}

	mintAccount, err := p.ledger.Mint(ctx, mint)
	if err != nil {
		return nil, err
	}

	minimum, err := common.MinAmountToRaiseUnits(mintAccount.Decimals)
	if err != nil {
		return nil, err
	}
	if amount < minimum {
		return nil, ErrInvalidAmount
	}
	if amount > math.MaxInt64 {
		return nil, ErrAmountOverflow
	}

	address, bump, err := common.FundraiserAddress(p.programID, maker.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to derive fundraiser address: %w", err)
	}

	var fundraiser *models.Fundraiser
	err = p.store.Atomic(ctx, ResourceID(address.String()), func(ctx context.Context) error {
		if _, err := p.store.FindFundraiser(ctx, address.String()); err == nil {
			return ErrAlreadyInitialized
		} else if !errors.Is(err, ErrFundraiserNotFound) {
			return err
		}

		// records left behind by an earlier fundraiser at this address
		if _, err := p.store.DeleteContributorsOf(ctx, address.String()); err != nil {
			return err
		}

		vault, err := p.ledger.CreateAccount(ctx, address, mint)
		if err != nil {
			return err
		}
		// the vault is derived from the fundraiser address, so a reinitialized
		// fundraiser inherits whatever was deposited after the last withdrawal
		if vault.Amount > 0 {
			log.WithField("fundraiser", address.String()).
				WithField("vault", vault.Address).
				WithField("carried", common.FormatAmount(vault.Amount, mintAccount.Decimals)).
				Warn("[PROGRAM] Reusing vault with a carried-over balance")
		}

		now := p.now()
		fundraiser = &models.Fundraiser{
			Address:       address.String(),
			Maker:         maker.Key().String(),
			MintToRaise:   mint.String(),
			Vault:         vault.Address,
			AmountToRaise: amount,
			CurrentAmount: 0,
			TimeStarted:   now.Unix(),
			Duration:      duration,
			Bump:          bump,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return p.store.InsertFundraiser(ctx, fundraiser)
	})
	if err != nil {
		return nil, err
	}

	log.WithField("fundraiser", fundraiser.Address).
		WithField("maker", fundraiser.Maker).
		WithField("amount", common.FormatAmount(amount, mintAccount.Decimals)).
		WithField("duration", duration).
		Info("[PROGRAM] Initialized fundraiser")

	p.publish(ctx, events.NewEvent(models.EventFundraiserInitialized, fundraiser.Address, fundraiser.Maker, amount, 0))

	return fundraiser, nil
}
