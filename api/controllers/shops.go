package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emberforge/shopledger-backend/api/responses"
	"github.com/emberforge/shopledger-backend/api/validators"
	"github.com/emberforge/shopledger-backend/internal/shops"
	"github.com/emberforge/shopledger-backend/pkg/enums"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

const shopNameMaxRunes = 128

type CreateShopBody struct {
	Owner       string          `json:"owner" validate:"required,uuid"`
	Item        string          `json:"item" validate:"required"`
	Name        *string         `json:"name,omitempty" validate:"omitempty,max=128"`
	Type        string          `json:"type" validate:"required"`
	Currency    *string         `json:"currency,omitempty" validate:"omitempty,max=64"`
	Price       string          `json:"price" validate:"required"`
	Unlimited   bool            `json:"unlimited"`
	Hologram    bool            `json:"hologram"`
	TaxAccount  *string         `json:"tax_account,omitempty" validate:"omitempty,uuid"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
	InvWrapper  string          `json:"inv_wrapper" validate:"required,max=255"`
	InvLink     string          `json:"inv_link" validate:"required"`
	World       string          `json:"world" validate:"required,max=32"`
	X           int             `json:"x"`
	Y           int             `json:"y"`
	Z           int             `json:"z"`
}

type shopResponse struct {
	ID        int64   `json:"id"`
	DataID    int64   `json:"data_id"`
	Owner     string  `json:"owner"`
	Item      string  `json:"item"`
	Name      *string `json:"name,omitempty"`
	Type      string  `json:"type"`
	Currency  *string `json:"currency,omitempty"`
	Price     string  `json:"price"`
	Unlimited bool    `json:"unlimited"`
	Hologram  bool    `json:"hologram"`
}

func toShopResponse(view *shops.View) shopResponse {
	return shopResponse{
		ID:        view.ID,
		DataID:    view.Data.ID,
		Owner:     view.Data.Owner.String(),
		Item:      view.Data.Item,
		Name:      view.Data.Name,
		Type:      view.Data.Type.String(),
		Currency:  view.Data.Currency,
		Price:     view.Data.Price.String(),
		Unlimited: view.Data.Unlimited,
		Hologram:  view.Data.Hologram,
	}
}

func shopIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "shopId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop id")
	}
	return id, nil
}

func CreateShop(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreateShopBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner, err := uuid.Parse(body.Owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner"))
			return
		}
		shopType, err := enums.ParseShopType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop type"))
			return
		}
		price, err := decimal.NewFromString(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		var taxAccount *uuid.UUID
		if body.TaxAccount != nil {
			parsed, parseErr := uuid.Parse(*body.TaxAccount)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid tax account"))
				return
			}
			taxAccount = &parsed
		}

		view, err := svc.Create(r.Context(), shops.CreateInput{
			Owner:       owner,
			Item:        body.Item,
			Name:        body.Name,
			Type:        shopType,
			Currency:    body.Currency,
			Price:       price,
			Unlimited:   body.Unlimited,
			Hologram:    body.Hologram,
			TaxAccount:  taxAccount,
			Permissions: body.Permissions,
			InvWrapper:  body.InvWrapper,
			InvLink:     body.InvLink,
			World:       body.World,
			X:           body.X,
			Y:           body.Y,
			Z:           body.Z,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toShopResponse(view))
	}
}

func GetShop(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shopIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShopResponse(view))
	}
}

func GetShopAt(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		world, err := validators.RequireQuery(r, "world")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		x, err := validators.RequireQueryInt(r, "x")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		y, err := validators.RequireQueryInt(r, "y")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		z, err := validators.RequireQueryInt(r, "z")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.FindAt(r.Context(), world, x, y, z)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShopResponse(view))
	}
}

type UpdatePriceBody struct {
	Price string `json:"price" validate:"required"`
}

func UpdateShopPrice(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shopIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body UpdatePriceBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := decimal.NewFromString(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		view, err := svc.UpdatePrice(r.Context(), id, price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShopResponse(view))
	}
}

type RenameShopBody struct {
	Name *string `json:"name" validate:"omitempty,max=128"`
}

func RenameShop(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shopIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body RenameShopBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Name != nil {
			clean := validators.SanitizeString(*body.Name, shopNameMaxRunes)
			body.Name = &clean
		}

		view, err := svc.Rename(r.Context(), id, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShopResponse(view))
	}
}

type TransferShopBody struct {
	Owner string `json:"owner" validate:"required,uuid"`
}

func TransferShopOwnership(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shopIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body TransferShopBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		owner, err := uuid.Parse(body.Owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner"))
			return
		}

		view, err := svc.TransferOwnership(r.Context(), id, owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShopResponse(view))
	}
}

type ChangeShopTypeBody struct {
	Type string `json:"type" validate:"required"`
}

func ChangeShopType(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shopIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body ChangeShopTypeBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shopType, err := enums.ParseShopType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop type"))
			return
		}

		view, err := svc.ChangeType(r.Context(), id, shopType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShopResponse(view))
	}
}

func DeleteShop(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shopIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": true, "id": id})
	}
}
