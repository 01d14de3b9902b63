package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emberforge/shopledger-backend/api/responses"
	"github.com/emberforge/shopledger-backend/api/validators"
	"github.com/emberforge/shopledger-backend/internal/account"
	"github.com/emberforge/shopledger-backend/internal/economy"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

// AccountRefBody selects an account by exactly one reference shape.
type AccountRefBody struct {
	UUID *string `json:"uuid,omitempty" validate:"omitempty,uuid"`
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=48"`
}

func (b AccountRefBody) toRef() (account.Ref, error) {
	switch {
	case b.UUID != nil && b.Name == nil:
		id, err := uuid.Parse(*b.UUID)
		if err != nil {
			return account.Ref{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account uuid")
		}
		return account.RefFromUUID(id), nil
	case b.Name != nil && b.UUID == nil:
		return account.RefFromName(*b.Name), nil
	default:
		return account.Ref{}, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of uuid or name is required")
	}
}

type TransferBody struct {
	From     AccountRefBody `json:"from" validate:"required"`
	To       AccountRefBody `json:"to" validate:"required"`
	Amount   string         `json:"amount" validate:"required"`
	World    string         `json:"world" validate:"required,max=32"`
	Currency string         `json:"currency" validate:"omitempty,max=64"`
}

type transferResponse struct {
	Outcome       string `json:"outcome"`
	Success       bool   `json:"success"`
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	AuditRecorded bool   `json:"audit_recorded"`
}

// CreateTransfer moves money between two accounts. Business failures come
// back as a 200 with the failure outcome; only malformed requests and
// infrastructure faults map to error statuses.
func CreateTransfer(resolver account.Resolver, engine *economy.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body TransferBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		fromRef, err := body.From.toRef()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		toRef, err := body.To.toRef()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := resolver.Resolve(r.Context(), fromRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := resolver.Resolve(r.Context(), toRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope := economy.Scope{World: body.World, Currency: body.Currency}
		outcome, err := engine.Transfer(r.Context(), from, to, amount, scope)
		auditRecorded := true
		if err != nil {
			if !pkgerrors.Is(err, pkgerrors.CodeAuditWrite) {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			// The transfer outcome stands; surface the gap operationally.
			auditRecorded = false
			if logg != nil {
				logg.Error(r.Context(), "transfer audit record missing", err)
			}
		}

		responses.WriteSuccess(w, transferResponse{
			Outcome:       outcome.Label(),
			Success:       outcome.Success,
			From:          from.String(),
			To:            to.String(),
			Amount:        amount.String(),
			AuditRecorded: auditRecorded,
		})
	}
}
