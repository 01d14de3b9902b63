package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/pagination"
)

// Repository inserts into and reads from the append-only log tables. There
// are no update or delete methods on purpose; retention purging lives in the
// cron worker, not here.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertTransaction(ctx context.Context, row *models.TransactionLog) error
	InsertPurchase(ctx context.Context, row *models.PurchaseLog) error
	InsertChange(ctx context.Context, row *models.ChangeLog) error
	InsertEvent(ctx context.Context, row *models.EventLog) error
	CountTransactions(ctx context.Context) (int64, error)
	ListTransactionsByAccount(ctx context.Context, account uuid.UUID, params pagination.Params) (*TransactionPage, error)
}

type repository struct {
	db     *gorm.DB
	prefix string
}

// NewRepository returns a log repository bound to the provided database and
// table prefix.
func NewRepository(db *gorm.DB, prefix string) Repository {
	return &repository{db: db, prefix: prefix}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, prefix: r.prefix}
}

func (r *repository) InsertTransaction(ctx context.Context, row *models.TransactionLog) error {
	return r.db.WithContext(ctx).
		Table(schema.TableLogTransaction.PhysicalName(r.prefix)).
		Create(row).Error
}

func (r *repository) InsertPurchase(ctx context.Context, row *models.PurchaseLog) error {
	return r.db.WithContext(ctx).
		Table(schema.TableLogPurchase.PhysicalName(r.prefix)).
		Create(row).Error
}

func (r *repository) InsertChange(ctx context.Context, row *models.ChangeLog) error {
	return r.db.WithContext(ctx).
		Table(schema.TableLogChanges.PhysicalName(r.prefix)).
		Create(row).Error
}

func (r *repository) InsertEvent(ctx context.Context, row *models.EventLog) error {
	return r.db.WithContext(ctx).
		Table(schema.TableLogOthers.PhysicalName(r.prefix)).
		Create(row).Error
}

func (r *repository) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(schema.TableLogTransaction.PhysicalName(r.prefix)).
		Count(&count).Error
	return count, err
}
