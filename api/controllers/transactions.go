package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emberforge/shopledger-backend/api/responses"
	"github.com/emberforge/shopledger-backend/api/validators"
	"github.com/emberforge/shopledger-backend/internal/audit"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
	"github.com/emberforge/shopledger-backend/pkg/pagination"
)

type transactionRow struct {
	ID       int64   `json:"id"`
	Time     string  `json:"time"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	World    string  `json:"world"`
	Currency *string `json:"currency,omitempty"`
	Amount   string  `json:"amount"`
	Tax      string  `json:"tax"`
	Error    *string `json:"error,omitempty"`
}

type transactionHistoryResponse struct {
	Transactions []transactionRow `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

// AccountTransactions pages through the transaction log rows touching one
// account, newest first.
func AccountTransactions(repo audit.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "accountId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account id"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor := r.URL.Query().Get("cursor")
		if _, err := pagination.ParseCursor(cursor); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
			return
		}

		page, err := repo.ListTransactionsByAccount(r.Context(), id, pagination.Params{
			Limit:  limit,
			Cursor: cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows := make([]transactionRow, 0, len(page.Rows))
		for _, row := range page.Rows {
			rows = append(rows, transactionRow{
				ID:       row.ID,
				Time:     row.Time.UTC().Format(time.RFC3339),
				From:     row.FromAccount.String(),
				To:       row.ToAccount.String(),
				World:    row.World,
				Currency: row.Currency,
				Amount:   row.Amount.String(),
				Tax:      row.TaxAmount.String(),
				Error:    row.Error,
			})
		}
		responses.WriteSuccess(w, transactionHistoryResponse{
			Transactions: rows,
			NextCursor:   page.NextCursor,
		})
	}
}
