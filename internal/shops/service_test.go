package shops

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/enums"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

type schemaExecutor struct {
	db *gorm.DB
}

func (e schemaExecutor) Exec(ctx context.Context, query string, args ...any) *gorm.DB {
	return e.db.WithContext(ctx).Exec(query, args...)
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupShopService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, schema.InitializeTables(context.Background(), schemaExecutor{db: db}, "shop_", schema.DialectSQLite))

	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(db, "shop_"),
		AuditRepo: audit.NewRepository(db, "shop_"),
		Tx:        gormTxRunner{db: db},
	})
	require.NoError(t, err)
	return svc, db
}

func createTestShop(t *testing.T, svc Service, world string, x int) *View {
	t.Helper()

	view, err := svc.Create(context.Background(), CreateInput{
		Owner:      uuid.New(),
		Item:       `{"material":"DIAMOND"}`,
		Type:       enums.ShopTypeSelling,
		Price:      decimal.RequireFromString("12.50"),
		InvWrapper: "main",
		InvLink:    "chest",
		World:      world,
		X:          x,
		Y:          64,
		Z:          -3,
	})
	require.NoError(t, err)
	return view
}

func TestService_CreateAndFind(t *testing.T) {
	svc, db := setupShopService(t)
	view := createTestShop(t, svc, "create_world", 10)

	assert.NotZero(t, view.ID)
	assert.NotZero(t, view.Data.ID)

	found, err := svc.FindAt(context.Background(), "create_world", 10, 64, -3)
	require.NoError(t, err)
	assert.Equal(t, view.ID, found.ID)
	assert.True(t, found.Data.Price.Equal(decimal.RequireFromString("12.50")))

	var change models.ChangeLog
	require.NoError(t, db.Table("shop_log_changes").Where("shop = ?", view.ID).Take(&change).Error)
	assert.Equal(t, enums.ChangeTypeCreated, change.Type)
}

func TestService_CreateRejectsOccupiedPosition(t *testing.T) {
	svc, _ := setupShopService(t)
	createTestShop(t, svc, "occupied_world", 1)

	_, err := svc.Create(context.Background(), CreateInput{
		Owner:      uuid.New(),
		Item:       `{"material":"DIRT"}`,
		Type:       enums.ShopTypeBuying,
		Price:      decimal.New(1, 0),
		InvWrapper: "main",
		InvLink:    "chest",
		World:      "occupied_world",
		X:          1,
		Y:          64,
		Z:          -3,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestService_UpdatePriceWritesNewVersion(t *testing.T) {
	svc, db := setupShopService(t)
	view := createTestShop(t, svc, "price_world", 2)
	originalDataID := view.Data.ID

	updated, err := svc.UpdatePrice(context.Background(), view.ID, decimal.RequireFromString("99.99"))
	require.NoError(t, err)
	assert.Greater(t, updated.Data.ID, originalDataID)
	assert.True(t, updated.Data.Price.Equal(decimal.RequireFromString("99.99")))

	// Old version stays addressable for history.
	var versions int64
	require.NoError(t, db.Table("shop_data").Where("id IN ?", []int64{originalDataID, updated.Data.ID}).Count(&versions).Error)
	assert.Equal(t, int64(2), versions)

	var change models.ChangeLog
	require.NoError(t, db.Table("shop_log_changes").
		Where("shop = ? AND type = ?", view.ID, enums.ChangeTypePriceChanged).
		Take(&change).Error)
	assert.Equal(t, originalDataID, change.Before)
	assert.Equal(t, updated.Data.ID, change.After)

	found, err := svc.FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Data.ID, found.Data.ID)
}

func TestService_TransferOwnership(t *testing.T) {
	svc, _ := setupShopService(t)
	view := createTestShop(t, svc, "owner_world", 3)

	newOwner := uuid.New()
	updated, err := svc.TransferOwnership(context.Background(), view.ID, newOwner)
	require.NoError(t, err)
	assert.Equal(t, newOwner, updated.Data.Owner)

	_, err = svc.TransferOwnership(context.Background(), view.ID, uuid.Nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestService_Remove(t *testing.T) {
	svc, db := setupShopService(t)
	view := createTestShop(t, svc, "remove_world", 4)

	require.NoError(t, svc.Remove(context.Background(), view.ID))

	_, err := svc.FindByID(context.Background(), view.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = svc.FindAt(context.Background(), "remove_world", 4, 64, -3)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	// Data versions survive removal; only identity and position go away.
	var versions int64
	require.NoError(t, db.Table("shop_data").Where("id = ?", view.Data.ID).Count(&versions).Error)
	assert.Equal(t, int64(1), versions)
}

func TestService_FindAtMissing(t *testing.T) {
	svc, _ := setupShopService(t)

	_, err := svc.FindAt(context.Background(), "nowhere", 0, 0, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
