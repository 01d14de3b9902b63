package economy

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Backend is the capability that holds true account balances. Withdraw and
// Deposit report business rejection as false, never as an error; that keeps
// the engine's compensating logic branch-based instead of error-based.
// Implementations must be safe for concurrent callers.
type Backend interface {
	// Valid reports whether the backend is currently usable. The engine
	// checks it before every transfer and treats false as immediate failure
	// without touching balances.
	Valid(ctx context.Context) bool

	// Balance returns the recorded balance, zero for an account with no
	// record yet.
	Balance(ctx context.Context, account uuid.UUID, scope Scope) decimal.Decimal

	// Withdraw decreases the balance by amount. Returns false when funds
	// are insufficient or the backend rejects the operation; the balance is
	// unchanged in that case.
	Withdraw(ctx context.Context, account uuid.UUID, amount decimal.Decimal, scope Scope) bool

	// Deposit increases the balance by amount. Returns false when the
	// backend rejects the operation, e.g. an unprovisioned account.
	Deposit(ctx context.Context, account uuid.UUID, amount decimal.Decimal, scope Scope) bool
}

// AccountLocker serializes transfers that touch the same source account.
// The balance-check-then-withdraw sequence is not atomic on its own; a
// backend with native per-account serialization can provide this, and the
// in-memory backend implements it with per-account mutexes.
type AccountLocker interface {
	LockAccount(account uuid.UUID) (unlock func())
}
