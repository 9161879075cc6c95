package fundraiser

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/dan13ram/fundraiser-escrow/token"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

// world is an in-memory store and ledger. Atomic serializes callers and
// restores the previous state when fn fails.
type world struct {
	mu sync.Mutex

	fundraisers  map[string]models.Fundraiser
	contributors map[string]models.Contributor
	mints        map[string]models.Mint
	accounts     map[string]models.TokenAccount
	transfers    []models.Transfer

	locked map[string]bool
}

func newWorld() *world {
	return &world{
		fundraisers:  map[string]models.Fundraiser{},
		contributors: map[string]models.Contributor{},
		mints:        map[string]models.Mint{},
		accounts:     map[string]models.TokenAccount{},
		locked:       map[string]bool{},
	}
}

type snapshot struct {
	fundraisers  map[string]models.Fundraiser
	contributors map[string]models.Contributor
	mints        map[string]models.Mint
	accounts     map[string]models.TokenAccount
	transfers    int
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (w *world) snapshot() snapshot {
	return snapshot{
		fundraisers:  copyMap(w.fundraisers),
		contributors: copyMap(w.contributors),
		mints:        copyMap(w.mints),
		accounts:     copyMap(w.accounts),
		transfers:    len(w.transfers),
	}
}

func (w *world) restore(s snapshot) {
	w.fundraisers = s.fundraisers
	w.contributors = s.contributors
	w.mints = s.mints
	w.accounts = s.accounts
	w.transfers = w.transfers[:s.transfers]
}

func (w *world) balance(address string) uint64 {
	return w.accounts[address].Amount
}

func (w *world) contributorSum(fundraiser string) uint64 {
	var sum uint64
	for _, c := range w.contributors {
		if c.Fundraiser == fundraiser {
			sum += c.Amount
		}
	}
	return sum
}

// store

type fakeStore struct {
	w *world
}

var _ Store = &fakeStore{}

func (s *fakeStore) Atomic(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	if s.w.locked[resource] {
		return ErrResourceLocked
	}

	before := s.w.snapshot()
	if err := fn(ctx); err != nil {
		s.w.restore(before)
		return err
	}
	return nil
}

func (s *fakeStore) FindFundraiser(ctx context.Context, address string) (*models.Fundraiser, error) {
	f, ok := s.w.fundraisers[address]
	if !ok {
		return nil, ErrFundraiserNotFound
	}
	return &f, nil
}

func (s *fakeStore) InsertFundraiser(ctx context.Context, fundraiser *models.Fundraiser) error {
	if _, ok := s.w.fundraisers[fundraiser.Address]; ok {
		return ErrAlreadyInitialized
	}
	s.w.fundraisers[fundraiser.Address] = *fundraiser
	return nil
}

func (s *fakeStore) AddToCurrentAmount(ctx context.Context, address string, delta int64) error {
	f, ok := s.w.fundraisers[address]
	if !ok {
		return ErrFundraiserNotFound
	}
	if delta < 0 && f.CurrentAmount < uint64(-delta) {
		return ErrAmountOverflow
	}
	f.CurrentAmount = uint64(int64(f.CurrentAmount) + delta)
	s.w.fundraisers[address] = f
	return nil
}

func (s *fakeStore) DeleteFundraiser(ctx context.Context, address string) error {
	if _, ok := s.w.fundraisers[address]; !ok {
		return ErrFundraiserNotFound
	}
	delete(s.w.fundraisers, address)
	return nil
}

func (s *fakeStore) FindContributor(ctx context.Context, address string) (*models.Contributor, error) {
	c, ok := s.w.contributors[address]
	if !ok {
		return nil, ErrContributorNotFound
	}
	return &c, nil
}

func (s *fakeStore) AddContribution(ctx context.Context, contributor *models.Contributor, amount uint64) error {
	c, ok := s.w.contributors[contributor.Address]
	if !ok {
		c = models.Contributor{
			Address:     contributor.Address,
			Fundraiser:  contributor.Fundraiser,
			Contributor: contributor.Contributor,
			Bump:        contributor.Bump,
		}
	}
	c.Amount += amount
	s.w.contributors[contributor.Address] = c
	return nil
}

func (s *fakeStore) DeleteContributor(ctx context.Context, address string) error {
	if _, ok := s.w.contributors[address]; !ok {
		return ErrContributorNotFound
	}
	delete(s.w.contributors, address)
	return nil
}

func (s *fakeStore) DeleteContributorsOf(ctx context.Context, fundraiser string) (int64, error) {
	var deleted int64
	for address, c := range s.w.contributors {
		if c.Fundraiser == fundraiser {
			delete(s.w.contributors, address)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeStore) StrandedFundraisers(ctx context.Context) ([]string, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	seen := map[string]bool{}
	var addresses []string
	for _, c := range s.w.contributors {
		if _, ok := s.w.fundraisers[c.Fundraiser]; ok || seen[c.Fundraiser] {
			continue
		}
		seen[c.Fundraiser] = true
		addresses = append(addresses, c.Fundraiser)
	}
	sort.Strings(addresses)
	return addresses, nil
}

// ledger

type fakeLedger struct {
	w *world
}

var _ token.Ledger = &fakeLedger{}

func (l *fakeLedger) CreateMint(ctx context.Context, authority common.Authority, decimals uint8) (*models.Mint, error) {
	if !authority.Valid() {
		return nil, token.ErrInvalidAuthority
	}
	if decimals > common.MaxDecimals {
		return nil, common.ErrInvalidDecimals
	}
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	mint := models.Mint{Address: pk.PublicKey().String(), Authority: authority.Key().String(), Decimals: decimals}
	l.w.mints[mint.Address] = mint
	return &mint, nil
}

func (l *fakeLedger) Mint(ctx context.Context, address solana.PublicKey) (*models.Mint, error) {
	mint, ok := l.w.mints[address.String()]
	if !ok {
		return nil, token.ErrMintNotFound
	}
	return &mint, nil
}

func (l *fakeLedger) Account(ctx context.Context, address solana.PublicKey) (*models.TokenAccount, error) {
	account, ok := l.w.accounts[address.String()]
	if !ok {
		return nil, token.ErrAccountNotFound
	}
	return &account, nil
}

func (l *fakeLedger) AccountFor(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	address, err := common.TokenAccountAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	return l.Account(ctx, address)
}

func (l *fakeLedger) CreateAccount(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (*models.TokenAccount, error) {
	if _, err := l.Mint(ctx, mint); err != nil {
		return nil, err
	}
	address, err := common.TokenAccountAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	if _, ok := l.w.accounts[address.String()]; !ok {
		l.w.accounts[address.String()] = models.TokenAccount{Address: address.String(), Owner: owner.String(), Mint: mint.String()}
	}
	account := l.w.accounts[address.String()]
	return &account, nil
}

func (l *fakeLedger) MintTo(ctx context.Context, authority common.Authority, mint solana.PublicKey, owner solana.PublicKey, amount uint64) (*models.TokenAccount, error) {
	m, err := l.Mint(ctx, mint)
	if err != nil {
		return nil, err
	}
	if m.Authority != authority.Key().String() {
		return nil, token.ErrMintAuthorityMismatch
	}
	account, err := l.CreateAccount(ctx, owner, mint)
	if err != nil {
		return nil, err
	}
	account.Amount += amount
	l.w.accounts[account.Address] = *account
	m.Supply += amount
	l.w.mints[m.Address] = *m
	l.w.transfers = append(l.w.transfers, models.Transfer{Kind: models.TransferKindMintTo, To: account.Address, Amount: amount})
	return account, nil
}

func (l *fakeLedger) Transfer(ctx context.Context, from solana.PublicKey, to solana.PublicKey, authority common.Authority, amount uint64, memo string) error {
	if !authority.Valid() {
		return token.ErrInvalidAuthority
	}
	source, err := l.Account(ctx, from)
	if err != nil {
		return err
	}
	destination, err := l.Account(ctx, to)
	if err != nil {
		return err
	}
	if source.Owner != authority.Key().String() {
		return token.ErrOwnerMismatch
	}
	if source.Mint != destination.Mint {
		return token.ErrMintMismatch
	}
	if source.Amount < amount {
		return token.ErrInsufficientFunds
	}
	if amount > math.MaxInt64-destination.Amount {
		return token.ErrAmountOverflow
	}
	source.Amount -= amount
	l.w.accounts[source.Address] = *source
	credited := l.w.accounts[destination.Address]
	credited.Amount += amount
	l.w.accounts[credited.Address] = credited
	l.w.transfers = append(l.w.transfers, models.Transfer{
		Kind: models.TransferKindTransfer, From: source.Address, To: destination.Address,
		Authority: authority.Key().String(), Amount: amount, Memo: memo,
	})
	return nil
}

// bus

type recordingBus struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (b *recordingBus) Publish(ctx context.Context, event models.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return b.err
}

func (b *recordingBus) Close() error {
	return nil
}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var types []string
	for _, e := range b.events {
		types = append(types, e.Type)
	}
	return types
}

// fixture

const (
	testProgramID = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	testDecimals  = uint8(6)
	oneToken      = uint64(1_000_000)
	testTarget    = 100 * oneToken
	testDuration  = uint16(7)
)

type fixture struct {
	t       *testing.T
	w       *world
	ledger  *fakeLedger
	bus     *recordingBus
	program *Program
	clock   time.Time

	mintAuthority common.Authority
	mint          solana.PublicKey
}

type user struct {
	key       solana.PrivateKey
	authority common.Authority
}

func (u user) pub() solana.PublicKey {
	return u.key.PublicKey()
}

func newUser(t *testing.T) user {
	pk, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	message := []byte(fmt.Sprintf("test:%s", pk.PublicKey()))
	sig, err := pk.Sign(message)
	require.NoError(t, err)
	authority, err := common.NewSignedAuthority(pk.PublicKey(), message, sig)
	require.NoError(t, err)
	return user{key: pk, authority: authority}
}

func newFixture(t *testing.T) *fixture {
	w := newWorld()
	ledger := &fakeLedger{w: w}
	bus := &recordingBus{}
	f := &fixture{
		t:      t,
		w:      w,
		ledger: ledger,
		bus:    bus,
		clock:  time.Unix(1_700_000_000, 0),
	}
	f.program = NewProgram(solana.MustPublicKeyFromBase58(testProgramID), &fakeStore{w: w}, ledger, bus)
	f.program.now = func() time.Time { return f.clock }

	f.mintAuthority = newUser(t).authority
	mint, err := ledger.CreateMint(context.Background(), f.mintAuthority, testDecimals)
	require.NoError(t, err)
	f.mint = solana.MustPublicKeyFromBase58(mint.Address)
	return f
}

func (f *fixture) advanceDays(days int64) {
	f.clock = f.clock.Add(time.Duration(days*common.SecondsToDays) * time.Second)
}

func (f *fixture) fund(u user, amount uint64) {
	_, err := f.ledger.MintTo(context.Background(), f.mintAuthority, f.mint, u.pub(), amount)
	require.NoError(f.t, err)
}

func (f *fixture) tokenBalance(owner solana.PublicKey) uint64 {
	address, err := common.TokenAccountAddress(owner, f.mint)
	require.NoError(f.t, err)
	return f.w.balance(address.String())
}

func (f *fixture) initialize(maker user, amount uint64, duration uint16) *models.Fundraiser {
	fundraiser, err := f.program.Initialize(context.Background(), maker.authority, f.mint, amount, duration)
	require.NoError(f.t, err)
	return fundraiser
}

func (f *fixture) contribute(contributor user, fundraiser *models.Fundraiser, amount uint64) (*models.Contributor, error) {
	return f.program.Contribute(context.Background(), contributor.authority, solana.MustPublicKeyFromBase58(fundraiser.Address), amount)
}

func (f *fixture) stored(fundraiser *models.Fundraiser) (models.Fundraiser, bool) {
	stored, ok := f.w.fundraisers[fundraiser.Address]
	return stored, ok
}
