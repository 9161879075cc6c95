package token

import (
	"context"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/gagliardetto/solana-go"
)

// atomicLedger runs each mutating call of the wrapped ledger in its own
// transaction, for callers that are not already inside one
type atomicLedger struct {
	Ledger
}

func (l *atomicLedger) CreateAccount(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	var account *models.TokenAccount
	err := app.DB.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = l.Ledger.CreateAccount(ctx, owner, mint)
		return err
	})
	return account, err
}

func (l *atomicLedger) MintTo(ctx context.Context, authority common.Authority, mint solana.PublicKey, owner solana.PublicKey, amount uint64) (*models.TokenAccount, error) {
	var account *models.TokenAccount
	err := app.DB.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = l.Ledger.MintTo(ctx, authority, mint, owner, amount)
		return err
	})
	return account, err
}

func (l *atomicLedger) Transfer(ctx context.Context, from solana.PublicKey, to solana.PublicKey, authority common.Authority, amount uint64, memo string) error {
	return app.DB.WithTransaction(ctx, func(ctx context.Context) error {
		return l.Ledger.Transfer(ctx, from, to, authority, amount, memo)
	})
}

func NewAtomicLedger(ledger Ledger) Ledger {
	return &atomicLedger{Ledger: ledger}
}
