package token

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ledger moves balances between token accounts. Mutating calls perform more
// than one write and expect to run inside a database transaction.
type Ledger interface {
	CreateMint(ctx context.Context, authority common.Authority, decimals uint8) (*models.Mint, error)
	Mint(ctx context.Context, address solana.PublicKey) (*models.Mint, error)
	Account(ctx context.Context, address solana.PublicKey) (*models.TokenAccount, error)
	AccountFor(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error)
	CreateAccount(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error)
	MintTo(ctx context.Context, authority common.Authority, mint solana.PublicKey, owner solana.PublicKey, amount uint64) (*models.TokenAccount, error)
	Transfer(ctx context.Context, from solana.PublicKey, to solana.PublicKey, authority common.Authority, amount uint64, memo string) error
}

type mongoLedger struct{}

var _ Ledger = &mongoLedger{}

// balances are stored as int64 by the driver
const maxBalance = uint64(math.MaxInt64)

var newMintAddress = func() (solana.PublicKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

func (l *mongoLedger) CreateMint(ctx context.Context, authority common.Authority, decimals uint8) (*models.Mint, error) {
	if !authority.Valid() {
		return nil, ErrInvalidAuthority
	}
	if decimals > common.MaxDecimals {
		return nil, common.ErrInvalidDecimals
	}

	address, err := newMintAddress()
	if err != nil {
		return nil, fmt.Errorf("failed to create mint address: %w", err)
	}

	now := time.Now()
	mint := &models.Mint{
		Address:   address.String(),
		Authority: authority.Key().String(),
		Decimals:  decimals,
		Supply:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := app.DB.InsertOne(ctx, models.CollectionMints, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to insert mint: %w", err)
	}
	mint.Id = &id

	log.WithField("mint", mint.Address).WithField("decimals", decimals).Info("[TOKEN] Created mint")
	return mint, nil
}

func (l *mongoLedger) Mint(ctx context.Context, address solana.PublicKey) (*models.Mint, error) {
	var mint models.Mint
	err := app.DB.FindOne(ctx, models.CollectionMints, bson.M{"address": address.String()}, &mint)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMintNotFound
		}
		return nil, fmt.Errorf("failed to find mint: %w", err)
	}
	return &mint, nil
}

func (l *mongoLedger) Account(ctx context.Context, address solana.PublicKey) (*models.TokenAccount, error) {
	var account models.TokenAccount
	err := app.DB.FindOne(ctx, models.CollectionTokenAccounts, bson.M{"address": address.String()}, &account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find token account: %w", err)
	}
	return &account, nil
}

func (l *mongoLedger) AccountFor(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	address, err := common.TokenAccountAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token account address: %w", err)
	}
	return l.Account(ctx, address)
}

// CreateAccount initializes the associated token account of owner if needed
func (l *mongoLedger) CreateAccount(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	if _, err := l.Mint(ctx, mint); err != nil {
		return nil, err
	}

	address, err := common.TokenAccountAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token account address: %w", err)
	}

	now := time.Now()
	filter := bson.M{"address": address.String()}
	update := bson.M{
		"$setOnInsert": bson.M{
			"address":    address.String(),
			"owner":      owner.String(),
			"mint":       mint.String(),
			"amount":     int64(0),
			"created_at": now,
			"updated_at": now,
		},
	}

	id, err := app.DB.UpsertOne(ctx, models.CollectionTokenAccounts, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert token account: %w", err)
	}
	if !id.IsZero() {
		log.WithField("account", address.String()).WithField("owner", owner.String()).Debug("[TOKEN] Created token account")
	}

	return l.Account(ctx, address)
}

func (l *mongoLedger) MintTo(ctx context.Context, authority common.Authority, mintAddress solana.PublicKey, owner solana.PublicKey, amount uint64) (*models.TokenAccount, error) {
	if !authority.Valid() {
		return nil, ErrInvalidAuthority
	}

	mint, err := l.Mint(ctx, mintAddress)
	if err != nil {
		return nil, err
	}
	if mint.Authority != authority.Key().String() {
		return nil, ErrMintAuthorityMismatch
	}
	if amount > maxBalance-mint.Supply {
		return nil, ErrAmountOverflow
	}

	account, err := l.CreateAccount(ctx, owner, mintAddress)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	matched, err := app.DB.UpdateOne(ctx, models.CollectionMints,
		bson.M{"address": mint.Address},
		bson.M{"$inc": bson.M{"supply": int64(amount)}, "$set": bson.M{"updated_at": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update mint supply: %w", err)
	}
	if matched == 0 {
		return nil, ErrMintNotFound
	}

	if err := credit(ctx, account.Address, amount, now); err != nil {
		return nil, err
	}

	if err := record(ctx, models.Transfer{
		Kind:      models.TransferKindMintTo,
		Mint:      mint.Address,
		To:        account.Address,
		Authority: authority.Key().String(),
		Amount:    amount,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	account.Amount += amount
	account.UpdatedAt = now

	log.WithField("mint", mint.Address).WithField("account", account.Address).WithField("amount", common.FormatAmount(amount, mint.Decimals)).Info("[TOKEN] Minted tokens")
	return account, nil
}

// Transfer debits from and credits to. The authority must own the source
// account, which for program owned accounts means re-derived seeds.
func (l *mongoLedger) Transfer(ctx context.Context, from solana.PublicKey, to solana.PublicKey, authority common.Authority, amount uint64, memo string) error {
	if !authority.Valid() {
		return ErrInvalidAuthority
	}

	source, err := l.Account(ctx, from)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	destination, err := l.Account(ctx, to)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	if source.Owner != authority.Key().String() {
		return ErrOwnerMismatch
	}
	if source.Mint != destination.Mint {
		return ErrMintMismatch
	}
	if source.Amount < amount {
		return ErrInsufficientFunds
	}
	if source.Address != destination.Address && amount > maxBalance-destination.Amount {
		return ErrAmountOverflow
	}

	now := time.Now()
	if err := debit(ctx, source.Address, amount, now); err != nil {
		return err
	}
	if err := credit(ctx, destination.Address, amount, now); err != nil {
		return err
	}

	if err := record(ctx, models.Transfer{
		Kind:      models.TransferKindTransfer,
		Mint:      source.Mint,
		From:      source.Address,
		To:        destination.Address,
		Authority: authority.Key().String(),
		Amount:    amount,
		Memo:      memo,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	log.WithField("from", source.Address).WithField("to", destination.Address).WithField("amount", amount).WithField("memo", memo).Debug("[TOKEN] Transferred tokens")
	return nil
}

func debit(ctx context.Context, address string, amount uint64, now time.Time) error {
	filter := bson.M{"address": address, "amount": bson.M{"$gte": int64(amount)}}
	update := bson.M{"$inc": bson.M{"amount": -int64(amount)}, "$set": bson.M{"updated_at": now}}
	matched, err := app.DB.UpdateOne(ctx, models.CollectionTokenAccounts, filter, update)
	if err != nil {
		return fmt.Errorf("failed to debit token account: %w", err)
	}
	if matched == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func credit(ctx context.Context, address string, amount uint64, now time.Time) error {
	filter := bson.M{"address": address}
	update := bson.M{"$inc": bson.M{"amount": int64(amount)}, "$set": bson.M{"updated_at": now}}
	matched, err := app.DB.UpdateOne(ctx, models.CollectionTokenAccounts, filter, update)
	if err != nil {
		return fmt.Errorf("failed to credit token account: %w", err)
	}
	if matched == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func record(ctx context.Context, transfer models.Transfer) error {
	if _, err := app.DB.InsertOne(ctx, models.CollectionTransfers, transfer); err != nil {
		return fmt.Errorf("failed to record transfer: %w", err)
	}
	return nil
}

func NewLedger() Ledger {
	return &mongoLedger{}
}
