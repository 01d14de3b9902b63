package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, schema.InitializeTables(context.Background(), schemaExecutor{db: db}, "audit_", schema.DialectSQLite))
	return db
}

func TestWriter_RecordTransaction(t *testing.T) {
	db := setupAuditTestDB(t)
	writer, err := NewWriter(WriterParams{Repo: NewRepository(db, "audit_")})
	require.NoError(t, err)

	reason := "InsufficientFunds"
	row := &models.TransactionLog{
		FromAccount: uuid.New(),
		ToAccount:   uuid.New(),
		World:       "world",
		Amount:      decimal.RequireFromString("40.00"),
		TaxAmount:   decimal.Zero,
		Error:       &reason,
	}
	require.NoError(t, writer.RecordTransaction(context.Background(), row))

	var got models.TransactionLog
	require.NoError(t, db.Table("audit_log_transaction").Take(&got).Error)
	assert.Equal(t, row.FromAccount, got.FromAccount)
	require.NotNil(t, got.Error)
	assert.Equal(t, "InsufficientFunds", *got.Error)
}

func TestWriter_RecordPurchaseAndChange(t *testing.T) {
	db := setupAuditTestDB(t)
	writer, err := NewWriter(WriterParams{Repo: NewRepository(db, "audit_")})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, writer.RecordPurchase(ctx, &models.PurchaseLog{
		ShopID:   7,
		DataID:   12,
		Buyer:    uuid.New(),
		ShopType: enums.ShopTypeSelling.String(),
		Amount:   3,
		Money:    decimal.RequireFromString("15.00"),
		Tax:      decimal.RequireFromString("0.75"),
	}))
	require.NoError(t, writer.RecordChange(ctx, &models.ChangeLog{
		ShopID: 7,
		Type:   enums.ChangeTypePriceChanged,
		Before: 12,
		After:  13,
	}))

	var purchases, changes int64
	require.NoError(t, db.Table("audit_log_purchase").Count(&purchases).Error)
	require.NoError(t, db.Table("audit_log_changes").Count(&changes).Error)
	assert.Equal(t, int64(1), purchases)
	assert.Equal(t, int64(1), changes)
}

func TestWriter_RecordEvent(t *testing.T) {
	db := setupAuditTestDB(t)
	writer, err := NewWriter(WriterParams{Repo: NewRepository(db, "audit_")})
	require.NoError(t, err)

	payload := map[string]any{"job": "log-retention", "purged": 42}
	require.NoError(t, writer.RecordEvent(context.Background(), "retention_run", payload))

	var got models.EventLog
	require.NoError(t, db.Table("audit_log_others").Take(&got).Error)
	assert.Equal(t, "retention_run", got.Type)
	assert.JSONEq(t, `{"job":"log-retention","purged":42}`, string(got.Data))
}

func TestWriter_WrapsStoreFailure(t *testing.T) {
	db := setupAuditTestDB(t)
	// Point the repository at a prefix whose tables were never created.
	writer, err := NewWriter(WriterParams{Repo: NewRepository(db, "ghost_")})
	require.NoError(t, err)

	err = writer.RecordTransaction(context.Background(), &models.TransactionLog{
		FromAccount: uuid.New(),
		ToAccount:   uuid.New(),
		World:       "world",
		Amount:      decimal.New(1, 0),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAuditWrite))
}
