package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/shopledger-backend/internal/economy"
	"github.com/emberforge/shopledger-backend/internal/shops"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/enums"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

type fixedShopService struct {
	shops.Service
	view *shops.View
}

func (f *fixedShopService) FindByID(ctx context.Context, id int64) (*shops.View, error) {
	if f.view == nil || f.view.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return f.view, nil
}

func sellingShop(owner uuid.UUID, price string, currency *string) *shops.View {
	return &shops.View{
		ID: 7,
		Data: models.ShopData{
			ID:       70,
			Owner:    owner,
			Item:     "minecraft:diamond",
			Type:     enums.ShopTypeSelling,
			Currency: currency,
			Price:    decimal.RequireFromString(price),
		},
	}
}

func TestCreatePurchaseMovesTotalToSeller(t *testing.T) {
	aud := &memoryAudit{}
	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{Backend: backend, Audit: aud})
	require.NoError(t, err)

	seller := uuid.New()
	buyer := uuid.New()
	svc := &fixedShopService{view: sellingShop(seller, "2.50", nil)}
	handler := CreatePurchase(&fakeResolver{}, engine, svc, "emeralds", testLogger())

	scope := economy.Scope{World: "overworld", Currency: "emeralds"}
	backend.Provision(buyer, scope, decimal.RequireFromString("100"))

	body := `{"shop_id":7,"buyer":{"uuid":"` + buyer.String() + `"},"quantity":4,"world":"overworld"}`
	resp := postJSON(handler, "/api/v1/purchases", body)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var envelope struct {
		Data struct {
			Outcome string `json:"outcome"`
			Success bool   `json:"success"`
			Total   string `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, "10", envelope.Data.Total)

	assert.True(t, backend.Balance(context.Background(), seller, scope).Equal(decimal.RequireFromString("10")))
	assert.True(t, backend.Balance(context.Background(), buyer, scope).Equal(decimal.RequireFromString("90")))
	require.Len(t, aud.purchases, 1)
	assert.Equal(t, int64(7), aud.purchases[0].ShopID)
}

func TestCreatePurchaseUsesShopCurrencyOverDefault(t *testing.T) {
	aud := &memoryAudit{}
	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{Backend: backend, Audit: aud})
	require.NoError(t, err)

	seller := uuid.New()
	buyer := uuid.New()
	gold := "gold"
	svc := &fixedShopService{view: sellingShop(seller, "1", &gold)}
	handler := CreatePurchase(&fakeResolver{}, engine, svc, "emeralds", testLogger())

	backend.Provision(buyer, economy.Scope{World: "overworld", Currency: gold}, decimal.RequireFromString("5"))

	body := `{"shop_id":7,"buyer":{"uuid":"` + buyer.String() + `"},"quantity":5,"world":"overworld"}`
	resp := postJSON(handler, "/api/v1/purchases", body)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"success":true`)
	assert.True(t, backend.Balance(context.Background(), seller, economy.Scope{World: "overworld", Currency: gold}).Equal(decimal.RequireFromString("5")))
}

func TestCreatePurchaseUnknownShopIs404(t *testing.T) {
	aud := &memoryAudit{}
	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{Backend: backend, Audit: aud})
	require.NoError(t, err)

	handler := CreatePurchase(&fakeResolver{}, engine, &fixedShopService{}, "", testLogger())

	body := `{"shop_id":99,"buyer":{"uuid":"` + uuid.NewString() + `"},"quantity":1,"world":"overworld"}`
	resp := postJSON(handler, "/api/v1/purchases", body)

	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
	assert.Empty(t, aud.purchases)
}

func TestCreatePurchaseRejectsNonPositiveQuantity(t *testing.T) {
	aud := &memoryAudit{}
	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{Backend: backend, Audit: aud})
	require.NoError(t, err)

	handler := CreatePurchase(&fakeResolver{}, engine, &fixedShopService{}, "", testLogger())

	body := `{"shop_id":7,"buyer":{"uuid":"` + uuid.NewString() + `"},"quantity":0,"world":"overworld"}`
	resp := postJSON(handler, "/api/v1/purchases", body)

	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Empty(t, aud.transactions)
}
