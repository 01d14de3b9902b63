package economy

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FailureReason classifies why a transfer did not complete. These are
// business outcomes, not faults: they come back as data and are recorded in
// the transaction log's error column.
type FailureReason string

const (
	ReasonBackendUnavailable FailureReason = "BackendUnavailable"
	ReasonInsufficientFunds  FailureReason = "InsufficientFunds"
	ReasonWithdrawRejected   FailureReason = "WithdrawRejected"
	ReasonDepositRejected    FailureReason = "DepositRejected"
	ReasonCancelled          FailureReason = "Cancelled"
)

// Outcome is the result of one transfer attempt.
type Outcome struct {
	Success bool
	Reason  FailureReason
}

// OutcomeSuccess is the successful outcome.
var OutcomeSuccess = Outcome{Success: true}

// Failed builds a failure outcome.
func Failed(reason FailureReason) Outcome {
	return Outcome{Reason: reason}
}

// Label returns the metrics/log label for the outcome.
func (o Outcome) Label() string {
	if o.Success {
		return "success"
	}
	return string(o.Reason)
}

// Proposed carries the transfer offered to the pre-commit hook. Accounts
// are already resolved to canonical ids.
type Proposed struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount decimal.Decimal
	Scope  Scope
}

// Decision is the hook's verdict. Reason is optional human-readable context
// recorded alongside the cancellation.
type Decision struct {
	Cancelled bool
	Reason    string
}

// CommitHook is consulted once per transfer before any ledger call. A
// cancelled decision stops the transfer with no balance movement at all.
type CommitHook interface {
	BeforeCommit(ctx context.Context, proposed Proposed) Decision
}

// CommitHookFunc adapts a function to the CommitHook interface.
type CommitHookFunc func(ctx context.Context, proposed Proposed) Decision

func (f CommitHookFunc) BeforeCommit(ctx context.Context, proposed Proposed) Decision {
	return f(ctx, proposed)
}
