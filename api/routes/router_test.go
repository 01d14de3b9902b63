package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/account"
	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/internal/economy"
	"github.com/emberforge/shopledger-backend/internal/shops"
	"github.com/emberforge/shopledger-backend/pkg/config"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/enums"
	"github.com/emberforge/shopledger-backend/pkg/logger"
	"github.com/emberforge/shopledger-backend/pkg/metrics"
	"github.com/emberforge/shopledger-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubDirectory struct {
	findByName func(ctx context.Context, name string) (*models.Player, error)
}

func (s *stubDirectory) WithTx(tx *gorm.DB) account.Directory {
	return s
}

func (s *stubDirectory) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	panic("unimplemented")
}

func (s *stubDirectory) FindByName(ctx context.Context, name string) (*models.Player, error) {
	if s.findByName != nil {
		return s.findByName(ctx, name)
	}
	panic("unimplemented")
}

func (s *stubDirectory) Upsert(ctx context.Context, player *models.Player) error {
	return nil
}

type nopAudit struct{}

func (nopAudit) RecordTransaction(ctx context.Context, row *models.TransactionLog) error {
	return nil
}

func (nopAudit) RecordPurchase(ctx context.Context, row *models.PurchaseLog) error {
	return nil
}

func (nopAudit) RecordChange(ctx context.Context, row *models.ChangeLog) error {
	return nil
}

func (nopAudit) RecordEvent(ctx context.Context, eventType string, payload any) error {
	return nil
}

type stubAuditRepo struct{}

func (stubAuditRepo) WithTx(tx *gorm.DB) audit.Repository {
	return stubAuditRepo{}
}

func (stubAuditRepo) InsertTransaction(ctx context.Context, row *models.TransactionLog) error {
	return nil
}

func (stubAuditRepo) InsertPurchase(ctx context.Context, row *models.PurchaseLog) error {
	return nil
}

func (stubAuditRepo) InsertChange(ctx context.Context, row *models.ChangeLog) error {
	return nil
}

func (stubAuditRepo) InsertEvent(ctx context.Context, row *models.EventLog) error {
	return nil
}

func (stubAuditRepo) CountTransactions(ctx context.Context) (int64, error) {
	return 0, nil
}

func (stubAuditRepo) ListTransactionsByAccount(ctx context.Context, account uuid.UUID, params pagination.Params) (*audit.TransactionPage, error) {
	return &audit.TransactionPage{}, nil
}

type stubShopService struct {
	findByID func(ctx context.Context, id int64) (*shops.View, error)
}

func (s *stubShopService) Create(ctx context.Context, input shops.CreateInput) (*shops.View, error) {
	panic("unimplemented")
}

func (s *stubShopService) FindByID(ctx context.Context, id int64) (*shops.View, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	panic("unimplemented")
}

func (s *stubShopService) FindAt(ctx context.Context, world string, x, y, z int) (*shops.View, error) {
	panic("unimplemented")
}

func (s *stubShopService) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*shops.View, error) {
	panic("unimplemented")
}

func (s *stubShopService) Rename(ctx context.Context, id int64, name *string) (*shops.View, error) {
	panic("unimplemented")
}

func (s *stubShopService) TransferOwnership(ctx context.Context, id int64, owner uuid.UUID) (*shops.View, error) {
	panic("unimplemented")
}

func (s *stubShopService) ChangeType(ctx context.Context, id int64, shopType enums.ShopType) (*shops.View, error) {
	panic("unimplemented")
}

func (s *stubShopService) Remove(ctx context.Context, id int64) error {
	return nil
}

type stubMessageService struct{}

func (stubMessageService) Save(ctx context.Context, receiver uuid.UUID, content string) error {
	return nil
}

func (stubMessageService) Pull(ctx context.Context, receiver uuid.UUID) ([]models.Message, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:  "test",
			Port: "0",
		},
	}
}

type testDeps struct {
	router  http.Handler
	backend *economy.MemoryBackend
}

func newTestRouter(t *testing.T, shopSvc shops.Service) testDeps {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	backend := economy.NewMemoryBackend()
	registry := prometheus.NewRegistry()
	engine, err := economy.NewEngine(economy.EngineParams{
		Backend: backend,
		Audit:   nopAudit{},
		Locker:  backend,
		Metrics: metrics.NewTransferMetrics(registry),
		Log:     logg,
	})
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	resolver, err := account.NewResolver(account.ResolverParams{Players: &stubDirectory{}})
	if err != nil {
		t.Fatalf("building resolver: %v", err)
	}

	router := NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis is optional in tests
		registry,
		resolver,
		engine,
		backend,
		stubAuditRepo{},
		shopSvc,
		stubMessageService{},
	)
	return testDeps{router: router, backend: backend}
}

func TestHealthRoutesRespond(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		deps.router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
		if env := resp.Header().Get("X-ShopLedger-Env"); env != "test" {
			t.Fatalf("expected env header for %s got %q", path, env)
		}
	}
}

func TestMetricsRouteExposesRegistry(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestTransferRouteMovesMoney(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	from := uuid.New()
	to := uuid.New()
	scope := economy.Scope{World: "overworld"}
	deps.backend.Provision(from, scope, decimal.RequireFromString("25"))

	body := `{"from":{"uuid":"` + from.String() + `"},"to":{"uuid":"` + to.String() + `"},"amount":"10","world":"overworld"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Outcome string `json:"outcome"`
			Success bool   `json:"success"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !envelope.Data.Success || envelope.Data.Outcome != "success" {
		t.Fatalf("expected success outcome got %+v", envelope.Data)
	}
	if got := deps.backend.Balance(context.Background(), to, scope); !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected recipient balance 10 got %s", got)
	}
}

func TestTransferRouteReportsBusinessFailure(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	body := `{"from":{"uuid":"` + uuid.NewString() + `"},"to":{"uuid":"` + uuid.NewString() + `"},"amount":"10","world":"overworld"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("business failures should keep a 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), string(economy.ReasonInsufficientFunds)) {
		t.Fatalf("expected insufficient funds outcome got %s", resp.Body.String())
	}
}

func TestTransferRouteRejectsMalformedBody(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(`{"amount":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBalanceRouteRequiresWorld(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString()+"/balance", nil)
	resp := httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without world got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString()+"/balance?world=overworld", nil)
	resp = httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with world got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"balance":"0"`) {
		t.Fatalf("expected zero balance got %s", resp.Body.String())
	}
}

func TestShopRouteRejectsBadID(t *testing.T) {
	deps := newTestRouter(t, &stubShopService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/not-a-number", nil)
	resp := httptest.NewRecorder()
	deps.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad shop id got %d", resp.Code)
	}
}
