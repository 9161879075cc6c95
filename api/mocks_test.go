package api

import (
	"context"
	"sync"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/fundraiser"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/dan13ram/fundraiser-escrow/token"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

var _ fundraiser.Store = &mockStore{}

func (m *mockStore) Atomic(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, resource, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *mockStore) FindFundraiser(ctx context.Context, address string) (*models.Fundraiser, error) {
	args := m.Called(ctx, address)
	fundraiser, _ := args.Get(0).(*models.Fundraiser)
	return fundraiser, args.Error(1)
}

func (m *mockStore) InsertFundraiser(ctx context.Context, fundraiser *models.Fundraiser) error {
	args := m.Called(ctx, fundraiser)
	return args.Error(0)
}

func (m *mockStore) AddToCurrentAmount(ctx context.Context, address string, delta int64) error {
	args := m.Called(ctx, address, delta)
	return args.Error(0)
}

func (m *mockStore) DeleteFundraiser(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *mockStore) FindContributor(ctx context.Context, address string) (*models.Contributor, error) {
	args := m.Called(ctx, address)
	contributor, _ := args.Get(0).(*models.Contributor)
	return contributor, args.Error(1)
}

func (m *mockStore) AddContribution(ctx context.Context, contributor *models.Contributor, amount uint64) error {
	args := m.Called(ctx, contributor, amount)
	return args.Error(0)
}

func (m *mockStore) DeleteContributor(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *mockStore) DeleteContributorsOf(ctx context.Context, fundraiser string) (int64, error) {
	args := m.Called(ctx, fundraiser)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) StrandedFundraisers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	addresses, _ := args.Get(0).([]string)
	return addresses, args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

var _ token.Ledger = &mockLedger{}

func (m *mockLedger) CreateMint(ctx context.Context, authority common.Authority, decimals uint8) (*models.Mint, error) {
	args := m.Called(ctx, authority, decimals)
	mint, _ := args.Get(0).(*models.Mint)
	return mint, args.Error(1)
}

func (m *mockLedger) Mint(ctx context.Context, address solana.PublicKey) (*models.Mint, error) {
	args := m.Called(ctx, address)
	mint, _ := args.Get(0).(*models.Mint)
	return mint, args.Error(1)
}

func (m *mockLedger) Account(ctx context.Context, address solana.PublicKey) (*models.TokenAccount, error) {
	args := m.Called(ctx, address)
	account, _ := args.Get(0).(*models.TokenAccount)
	return account, args.Error(1)
}

func (m *mockLedger) AccountFor(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	args := m.Called(ctx, owner, mint)
	account, _ := args.Get(0).(*models.TokenAccount)
	return account, args.Error(1)
}

func (m *mockLedger) CreateAccount(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	args := m.Called(ctx, owner, mint)
	account, _ := args.Get(0).(*models.TokenAccount)
	return account, args.Error(1)
}

func (m *mockLedger) MintTo(ctx context.Context, authority common.Authority, mint solana.PublicKey, owner solana.PublicKey, amount uint64) (*models.TokenAccount, error) {
	args := m.Called(ctx, authority, mint, owner, amount)
	account, _ := args.Get(0).(*models.TokenAccount)
	return account, args.Error(1)
}

func (m *mockLedger) Transfer(ctx context.Context, from solana.PublicKey, to solana.PublicKey, authority common.Authority, amount uint64, memo string) error {
	args := m.Called(ctx, from, to, authority, amount, memo)
	return args.Error(0)
}

// memorySignatures rejects a signature seen before
type memorySignatures struct {
	mu   sync.Mutex
	used map[string]bool
}

func (s *memorySignatures) Use(ctx context.Context, signature string, signer string, operation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used[signature] {
		return ErrSignatureReused
	}
	s.used[signature] = true
	return nil
}

func (s *memorySignatures) Release(ctx context.Context, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, signature)
	return nil
}

func newMemorySignatures() *memorySignatures {
	return &memorySignatures{used: map[string]bool{}}
}
