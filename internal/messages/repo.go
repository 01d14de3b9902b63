package messages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
)

// Repository handles offline message persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, message *models.Message) error
	ListByReceiver(ctx context.Context, receiver uuid.UUID) ([]models.Message, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

type repository struct {
	db     *gorm.DB
	prefix string
}

// NewRepository returns a message repository bound to the provided database
// and table prefix.
func NewRepository(db *gorm.DB, prefix string) Repository {
	return &repository{db: db, prefix: prefix}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, prefix: r.prefix}
}

func (r *repository) table() string {
	return schema.TableMessages.PhysicalName(r.prefix)
}

func (r *repository) Insert(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Table(r.table()).Create(message).Error
}

func (r *repository) ListByReceiver(ctx context.Context, receiver uuid.UUID) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Table(r.table()).
		Where("receiver = ?", receiver).
		Order("time ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Table(r.table()).
		Where("id IN ?", ids).
		Delete(&models.Message{}).Error
}
