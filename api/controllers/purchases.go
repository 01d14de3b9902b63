package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/emberforge/shopledger-backend/api/responses"
	"github.com/emberforge/shopledger-backend/api/validators"
	"github.com/emberforge/shopledger-backend/internal/account"
	"github.com/emberforge/shopledger-backend/internal/economy"
	"github.com/emberforge/shopledger-backend/internal/shops"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

type PurchaseBody struct {
	ShopID   int64          `json:"shop_id" validate:"required,gt=0"`
	Buyer    AccountRefBody `json:"buyer" validate:"required"`
	Quantity int            `json:"quantity" validate:"required,gt=0"`
	World    string         `json:"world" validate:"required,max=32"`
}

type purchaseResponse struct {
	Outcome       string `json:"outcome"`
	Success       bool   `json:"success"`
	ShopID        int64  `json:"shop_id"`
	Buyer         string `json:"buyer"`
	Quantity      int    `json:"quantity"`
	Total         string `json:"total"`
	AuditRecorded bool   `json:"audit_recorded"`
}

// CreatePurchase runs the buy flow for a shop: quantity times the shop's
// unit price moves from the buyer to the owner, minus the tax share.
func CreatePurchase(resolver account.Resolver, engine *economy.Engine, shopSvc shops.Service, defaultCurrency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body PurchaseBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyerRef, err := body.Buyer.toRef()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buyer, err := resolver.Resolve(r.Context(), buyerRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := shopSvc.FindByID(r.Context(), body.ShopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency := defaultCurrency
		if view.Data.Currency != nil {
			currency = *view.Data.Currency
		}

		total := view.Data.Price.Mul(decimal.NewFromInt(int64(body.Quantity)))
		outcome, err := engine.Purchase(r.Context(), economy.PurchaseParams{
			ShopID:   view.ID,
			DataID:   view.Data.ID,
			Buyer:    buyer,
			Seller:   view.Data.Owner,
			ShopType: view.Data.Type,
			Quantity: body.Quantity,
			Total:    total,
			Scope:    economy.Scope{World: body.World, Currency: currency},
		})
		auditRecorded := true
		if err != nil {
			if !pkgerrors.Is(err, pkgerrors.CodeAuditWrite) {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			auditRecorded = false
			if logg != nil {
				logg.Error(r.Context(), "purchase audit record missing", err)
			}
		}

		responses.WriteSuccess(w, purchaseResponse{
			Outcome:       outcome.Label(),
			Success:       outcome.Success,
			ShopID:        view.ID,
			Buyer:         buyer.String(),
			Quantity:      body.Quantity,
			Total:         total.String(),
			AuditRecorded: auditRecorded,
		})
	}
}
