package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/pagination"
)

func setupHistoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, schema.InitializeTables(context.Background(), schemaExecutor{db: db}, "hist_", schema.DialectSQLite))
	return db
}

func seedTransactions(t *testing.T, repo Repository, account uuid.UUID, n int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		row := &models.TransactionLog{
			Time:        base.Add(time.Duration(i) * time.Minute),
			FromAccount: account,
			ToAccount:   uuid.New(),
			World:       "world",
			Amount:      decimal.NewFromInt(int64(i + 1)),
		}
		require.NoError(t, repo.InsertTransaction(context.Background(), row))
	}
}

func TestListTransactionsByAccount_PagesNewestFirst(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db, "hist_")

	account := uuid.New()
	seedTransactions(t, repo, account, 5)
	seedTransactions(t, repo, uuid.New(), 3) // other account, never returned

	first, err := repo.ListTransactionsByAccount(context.Background(), account, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)
	require.NotEmpty(t, first.NextCursor)
	assert.True(t, first.Rows[0].Time.After(first.Rows[1].Time))
	assert.True(t, first.Rows[0].Amount.Equal(decimal.NewFromInt(5)))

	second, err := repo.ListTransactionsByAccount(context.Background(), account, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Rows, 2)
	assert.True(t, second.Rows[0].Time.Before(first.Rows[1].Time))

	last, err := repo.ListTransactionsByAccount(context.Background(), account, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, last.Rows, 1)
	assert.Empty(t, last.NextCursor)
	assert.True(t, last.Rows[0].Amount.Equal(decimal.NewFromInt(1)))

	for _, row := range append(append(first.Rows, second.Rows...), last.Rows...) {
		assert.Equal(t, account, row.FromAccount)
	}
}

func TestListTransactionsByAccount_MatchesEitherSide(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db, "hist_")

	account := uuid.New()
	require.NoError(t, repo.InsertTransaction(context.Background(), &models.TransactionLog{
		Time:        time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		FromAccount: uuid.New(),
		ToAccount:   account,
		World:       "world",
		Amount:      decimal.NewFromInt(7),
	}))

	page, err := repo.ListTransactionsByAccount(context.Background(), account, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, account, page.Rows[0].ToAccount)
	assert.Empty(t, page.NextCursor)
}

func TestListTransactionsByAccount_RejectsBadCursor(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db, "hist_")

	_, err := repo.ListTransactionsByAccount(context.Background(), uuid.New(), pagination.Params{Cursor: "!!bad!!"})
	assert.Error(t, err)
}
