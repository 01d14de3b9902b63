package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emberforge/shopledger-backend/api/responses"
	"github.com/emberforge/shopledger-backend/api/validators"
	"github.com/emberforge/shopledger-backend/internal/economy"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

type balanceResponse struct {
	Account  string `json:"account"`
	World    string `json:"world"`
	Currency string `json:"currency,omitempty"`
	Balance  string `json:"balance"`
}

// AccountBalance reads the ledger balance for an account in one scope.
func AccountBalance(backend economy.Backend, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "accountId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account id"))
			return
		}

		world, err := validators.RequireQuery(r, "world")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope := economy.Scope{World: world, Currency: r.URL.Query().Get("currency")}

		if !backend.Valid(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "ledger backend unavailable"))
			return
		}

		balance := backend.Balance(r.Context(), id, scope)
		responses.WriteSuccess(w, balanceResponse{
			Account:  id.String(),
			World:    scope.World,
			Currency: scope.Currency,
			Balance:  balance.String(),
		})
	}
}
