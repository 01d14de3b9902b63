package economy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/enums"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
	"github.com/emberforge/shopledger-backend/pkg/metrics"
)

// EngineParams groups dependencies for the transaction engine.
type EngineParams struct {
	Backend Backend
	Audit   audit.Writer

	// Hook, Locker, Metrics and Log are optional.
	Hook    CommitHook
	Locker  AccountLocker
	Metrics *metrics.TransferMetrics
	Log     *logger.Logger

	// TaxRate is the fraction of a purchase routed to TaxAccount. A nil
	// TaxAccount disables tax routing entirely.
	TaxRate    decimal.Decimal
	TaxAccount *uuid.UUID
}

// Engine executes money movements against the ledger backend and records
// every attempt in the transaction log. Transfer steps are strictly
// sequential; concurrency safety comes from the backend plus the optional
// per-account locker.
type Engine struct {
	backend    Backend
	audit      audit.Writer
	hook       CommitHook
	locker     AccountLocker
	metrics    *metrics.TransferMetrics
	log        *logger.Logger
	taxRate    decimal.Decimal
	taxAccount *uuid.UUID
}

// NewEngine builds a transaction engine.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if params.Audit == nil {
		return nil, errors.New("audit writer is required")
	}
	if params.TaxRate.IsNegative() || params.TaxRate.GreaterThan(decimal.New(1, 0)) {
		return nil, errors.New("tax rate must be within [0, 1]")
	}
	return &Engine{
		backend:    params.Backend,
		audit:      params.Audit,
		hook:       params.Hook,
		locker:     params.Locker,
		metrics:    params.Metrics,
		log:        params.Log,
		taxRate:    params.TaxRate,
		taxAccount: params.TaxAccount,
	}, nil
}

// leg is one money movement plus the tax columns its log row carries.
type leg struct {
	from       uuid.UUID
	to         uuid.UUID
	amount     decimal.Decimal
	scope      Scope
	taxAmount  decimal.Decimal
	taxAccount *uuid.UUID
}

// Transfer moves amount between two resolved accounts. Business failures
// come back inside the Outcome; the error return carries only audit-write
// failures (AUDIT_WRITE_FAILED), which are distinct from the outcome so the
// caller can still report it while flagging the gap.
func (e *Engine) Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal, scope Scope) (Outcome, error) {
	if amount.IsNegative() {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "transfer amount must not be negative")
	}
	return e.execute(ctx, leg{from: from, to: to, amount: amount, scope: scope})
}

func (e *Engine) execute(ctx context.Context, l leg) (Outcome, error) {
	start := time.Now()
	outcome := e.run(ctx, l)
	auditErr := e.record(ctx, l, outcome)

	if e.metrics != nil {
		e.metrics.ObserveOutcome(outcome.Label(), time.Since(start))
	}
	if e.log != nil && !outcome.Success {
		lctx := e.log.WithAccountID(ctx, l.from.String())
		lctx = e.log.WithWorld(lctx, l.scope.World)
		lctx = e.log.WithField(lctx, "outcome", outcome.Label())
		e.log.Warn(lctx, "transfer failed")
	}
	return outcome, auditErr
}

func (e *Engine) run(ctx context.Context, l leg) Outcome {
	if !e.backend.Valid(ctx) {
		return Failed(ReasonBackendUnavailable)
	}

	if e.hook != nil {
		decision := e.hook.BeforeCommit(ctx, Proposed{From: l.from, To: l.to, Amount: l.amount, Scope: l.scope})
		if decision.Cancelled {
			if e.log != nil && decision.Reason != "" {
				e.log.Info(e.log.WithField(ctx, "reason", decision.Reason), "transfer cancelled by hook")
			}
			return Failed(ReasonCancelled)
		}
	}

	if e.locker != nil {
		unlock := e.locker.LockAccount(l.from)
		defer unlock()
	}

	if e.backend.Balance(ctx, l.from, l.scope).LessThan(l.amount) {
		return Failed(ReasonInsufficientFunds)
	}
	if !e.backend.Withdraw(ctx, l.from, l.amount, l.scope) {
		// Balances are untouched, nothing to compensate.
		return Failed(ReasonWithdrawRejected)
	}
	if !e.backend.Deposit(ctx, l.to, l.amount, l.scope) {
		// Credit the withdrawn amount back. The outcome is DepositRejected
		// either way; a failed compensation only surfaces operationally.
		if !e.backend.Deposit(ctx, l.from, l.amount, l.scope) {
			if e.metrics != nil {
				e.metrics.IncCompensationFailure()
			}
			if e.log != nil {
				lctx := e.log.WithAccountID(ctx, l.from.String())
				e.log.Error(lctx, "compensating deposit failed, funds withdrawn without credit", nil)
			}
		}
		return Failed(ReasonDepositRejected)
	}
	return OutcomeSuccess
}

func (e *Engine) record(ctx context.Context, l leg, outcome Outcome) error {
	row := models.TransactionLog{
		FromAccount: l.from,
		ToAccount:   l.to,
		World:       l.scope.World,
		Currency:    l.scope.CurrencyOrNil(),
		Amount:      l.amount,
		TaxAmount:   l.taxAmount,
		TaxAccount:  l.taxAccount,
	}
	if !outcome.Success {
		reason := string(outcome.Reason)
		row.Error = &reason
	}
	return e.audit.RecordTransaction(ctx, &row)
}

// PurchaseParams describes one shop purchase: the buyer pays Total, the
// seller receives Total minus tax, the tax share goes to the configured tax
// account.
type PurchaseParams struct {
	ShopID   int64
	DataID   int64
	Buyer    uuid.UUID
	Seller   uuid.UUID
	ShopType enums.ShopType
	Quantity int
	Total    decimal.Decimal
	Scope    Scope
}

// Purchase runs the multi-leg purchase flow: a seller leg, then a tax leg.
// Each leg is a full transfer with its own transaction record. If the tax
// leg fails after the seller leg succeeded, the seller leg is unwound with a
// reverse transfer. One purchase record is written only when every leg
// succeeded.
func (e *Engine) Purchase(ctx context.Context, params PurchaseParams) (Outcome, error) {
	if params.Quantity <= 0 {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "purchase quantity must be positive")
	}
	if params.Total.IsNegative() {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "purchase total must not be negative")
	}

	tax := e.taxFor(params.Total)
	sellerShare := params.Total.Sub(tax)

	sellerOutcome, sellerErr := e.execute(ctx, leg{
		from:      params.Buyer,
		to:        params.Seller,
		amount:    sellerShare,
		scope:     params.Scope,
		taxAmount: decimal.Zero,
	})
	if !sellerOutcome.Success {
		return sellerOutcome, sellerErr
	}

	var auditErrs error = sellerErr
	if tax.IsPositive() {
		taxOutcome, taxErr := e.execute(ctx, leg{
			from:       params.Buyer,
			to:         *e.taxAccount,
			amount:     tax,
			scope:      params.Scope,
			taxAmount:  tax,
			taxAccount: e.taxAccount,
		})
		auditErrs = multierr.Append(auditErrs, taxErr)
		if !taxOutcome.Success {
			reverseOutcome, reverseErr := e.execute(ctx, leg{
				from:   params.Seller,
				to:     params.Buyer,
				amount: sellerShare,
				scope:  params.Scope,
			})
			auditErrs = multierr.Append(auditErrs, reverseErr)
			if !reverseOutcome.Success {
				if e.metrics != nil {
					e.metrics.IncCompensationFailure()
				}
				if e.log != nil {
					lctx := e.log.WithShopID(ctx, params.ShopID)
					e.log.Error(lctx, "purchase unwind failed, seller keeps uncollected-tax share", nil)
				}
			}
			return taxOutcome, auditErrs
		}
	}

	purchaseErr := e.audit.RecordPurchase(ctx, &models.PurchaseLog{
		ShopID:   params.ShopID,
		DataID:   params.DataID,
		Buyer:    params.Buyer,
		ShopType: params.ShopType.String(),
		Amount:   params.Quantity,
		Money:    params.Total,
		Tax:      tax,
	})
	return OutcomeSuccess, multierr.Append(auditErrs, purchaseErr)
}

func (e *Engine) taxFor(total decimal.Decimal) decimal.Decimal {
	if e.taxAccount == nil || e.taxRate.IsZero() {
		return decimal.Zero
	}
	return total.Mul(e.taxRate).Round(2)
}
