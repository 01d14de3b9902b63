package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/shopledger-backend/internal/account"
	"github.com/emberforge/shopledger-backend/internal/economy"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

type fakeResolver struct {
	names map[string]uuid.UUID
}

func (f *fakeResolver) Resolve(ctx context.Context, ref account.Ref) (uuid.UUID, error) {
	switch ref.Kind() {
	case account.RefKindUUID:
		return ref.UUID(), nil
	case account.RefKindName:
		if id, ok := f.names[ref.Name()]; ok {
			return id, nil
		}
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account reference kind")
	}
}

type memoryAudit struct {
	transactions []models.TransactionLog
	purchases    []models.PurchaseLog
	failWrites   bool
}

func (m *memoryAudit) RecordTransaction(ctx context.Context, row *models.TransactionLog) error {
	if m.failWrites {
		return pkgerrors.New(pkgerrors.CodeAuditWrite, "append transaction log")
	}
	m.transactions = append(m.transactions, *row)
	return nil
}

func (m *memoryAudit) RecordPurchase(ctx context.Context, row *models.PurchaseLog) error {
	if m.failWrites {
		return pkgerrors.New(pkgerrors.CodeAuditWrite, "append purchase log")
	}
	m.purchases = append(m.purchases, *row)
	return nil
}

func (m *memoryAudit) RecordChange(ctx context.Context, row *models.ChangeLog) error {
	return nil
}

func (m *memoryAudit) RecordEvent(ctx context.Context, eventType string, payload any) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-controllers", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func newTransferFixture(t *testing.T, aud *memoryAudit) (*economy.MemoryBackend, http.HandlerFunc) {
	t.Helper()
	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{Backend: backend, Audit: aud})
	require.NoError(t, err)
	handler := CreateTransfer(&fakeResolver{}, engine, testLogger())
	return backend, handler
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestCreateTransferSuccess(t *testing.T) {
	aud := &memoryAudit{}
	backend, handler := newTransferFixture(t, aud)

	from := uuid.New()
	to := uuid.New()
	backend.Provision(from, economy.Scope{World: "overworld"}, decimal.RequireFromString("50"))

	body := `{"from":{"uuid":"` + from.String() + `"},"to":{"uuid":"` + to.String() + `"},"amount":"12.50","world":"overworld"}`
	resp := postJSON(handler, "/api/v1/transfers", body)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var envelope struct {
		Data struct {
			Outcome       string `json:"outcome"`
			Success       bool   `json:"success"`
			Amount        string `json:"amount"`
			AuditRecorded bool   `json:"audit_recorded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, "success", envelope.Data.Outcome)
	assert.Equal(t, "12.5", envelope.Data.Amount)
	assert.True(t, envelope.Data.AuditRecorded)

	require.Len(t, aud.transactions, 1)
	assert.Nil(t, aud.transactions[0].Error)
}

func TestCreateTransferBusinessFailureIsStillOK(t *testing.T) {
	aud := &memoryAudit{}
	_, handler := newTransferFixture(t, aud)

	body := `{"from":{"uuid":"` + uuid.NewString() + `"},"to":{"uuid":"` + uuid.NewString() + `"},"amount":"5","world":"overworld"}`
	resp := postJSON(handler, "/api/v1/transfers", body)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), string(economy.ReasonInsufficientFunds))

	require.Len(t, aud.transactions, 1)
	require.NotNil(t, aud.transactions[0].Error)
}

func TestCreateTransferReportsAuditGap(t *testing.T) {
	aud := &memoryAudit{failWrites: true}
	backend, handler := newTransferFixture(t, aud)

	from := uuid.New()
	backend.Provision(from, economy.Scope{World: "overworld"}, decimal.RequireFromString("50"))

	body := `{"from":{"uuid":"` + from.String() + `"},"to":{"uuid":"` + uuid.NewString() + `"},"amount":"5","world":"overworld"}`
	resp := postJSON(handler, "/api/v1/transfers", body)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"audit_recorded":false`)
	assert.Contains(t, resp.Body.String(), `"outcome":"success"`)
}

func TestCreateTransferRejectsAmbiguousRef(t *testing.T) {
	aud := &memoryAudit{}
	_, handler := newTransferFixture(t, aud)

	body := `{"from":{"uuid":"` + uuid.NewString() + `","name":"steve"},"to":{"uuid":"` + uuid.NewString() + `"},"amount":"5","world":"overworld"}`
	resp := postJSON(handler, "/api/v1/transfers", body)

	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "exactly one of uuid or name")
	assert.Empty(t, aud.transactions)
}

func TestCreateTransferResolvesNames(t *testing.T) {
	aud := &memoryAudit{}
	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{Backend: backend, Audit: aud})
	require.NoError(t, err)

	steve := uuid.New()
	alex := uuid.New()
	resolver := &fakeResolver{names: map[string]uuid.UUID{"steve": steve, "alex": alex}}
	handler := CreateTransfer(resolver, engine, testLogger())

	backend.Provision(steve, economy.Scope{World: "overworld"}, decimal.RequireFromString("20"))

	body := `{"from":{"name":"steve"},"to":{"name":"alex"},"amount":"20","world":"overworld"}`
	resp := postJSON(handler, "/api/v1/transfers", body)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, backend.Balance(context.Background(), alex, economy.Scope{World: "overworld"}).Equal(decimal.RequireFromString("20")))
}

func TestCreateTransferUnknownNameIs404(t *testing.T) {
	aud := &memoryAudit{}
	_, handler := newTransferFixture(t, aud)

	body := `{"from":{"name":"nobody"},"to":{"uuid":"` + uuid.NewString() + `"},"amount":"5","world":"overworld"}`
	resp := postJSON(handler, "/api/v1/transfers", body)

	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
	assert.Empty(t, aud.transactions)
}
