package economy

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	account  uuid.UUID
	world    string
	currency string
}

// MemoryBackend is the reference in-memory ledger. It keeps balances per
// (account, scope) and hands out per-account locks so the engine can
// serialize concurrent transfers draining the same account.
//
// Provisioning is optional: by default any account accepts deposits; with
// RequireProvisioning enabled, deposits to accounts never seen before are
// rejected, which mirrors external providers that refuse unknown accounts.
type MemoryBackend struct {
	mu          sync.Mutex
	balances    map[balanceKey]decimal.Decimal
	provisioned map[uuid.UUID]struct{}
	locks       map[uuid.UUID]*sync.Mutex

	available        bool
	requireProvision bool
}

// NewMemoryBackend returns an empty, available in-memory ledger.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		balances:    make(map[balanceKey]decimal.Decimal),
		provisioned: make(map[uuid.UUID]struct{}),
		locks:       make(map[uuid.UUID]*sync.Mutex),
		available:   true,
	}
}

// SetAvailable flips the backend's usable state.
func (b *MemoryBackend) SetAvailable(available bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.available = available
}

// RequireProvisioning makes deposits to unknown accounts fail.
func (b *MemoryBackend) RequireProvisioning() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requireProvision = true
}

// Provision seeds an account's balance for a scope and marks it known.
func (b *MemoryBackend) Provision(account uuid.UUID, scope Scope, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.provisioned[account] = struct{}{}
	b.balances[b.key(account, scope)] = amount
}

func (b *MemoryBackend) key(account uuid.UUID, scope Scope) balanceKey {
	return balanceKey{account: account, world: scope.World, currency: scope.Currency}
}

func (b *MemoryBackend) Valid(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

func (b *MemoryBackend) Balance(ctx context.Context, account uuid.UUID, scope Scope) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[b.key(account, scope)]
}

func (b *MemoryBackend) Withdraw(ctx context.Context, account uuid.UUID, amount decimal.Decimal, scope Scope) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available || amount.IsNegative() {
		return false
	}
	key := b.key(account, scope)
	balance := b.balances[key]
	if balance.LessThan(amount) {
		return false
	}
	b.balances[key] = balance.Sub(amount)
	return true
}

func (b *MemoryBackend) Deposit(ctx context.Context, account uuid.UUID, amount decimal.Decimal, scope Scope) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available || amount.IsNegative() {
		return false
	}
	if b.requireProvision {
		if _, ok := b.provisioned[account]; !ok {
			return false
		}
	}
	key := b.key(account, scope)
	b.balances[key] = b.balances[key].Add(amount)
	b.provisioned[account] = struct{}{}
	return true
}

// LockAccount returns the unlock for this account's mutex, creating the
// mutex on first use.
func (b *MemoryBackend) LockAccount(account uuid.UUID) func() {
	b.mu.Lock()
	lock, ok := b.locks[account]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[account] = lock
	}
	b.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
