package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

// Directory handles player directory persistence.
type Directory interface {
	WithTx(tx *gorm.DB) Directory
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	FindByName(ctx context.Context, name string) (*models.Player, error)
	Upsert(ctx context.Context, player *models.Player) error
}

type directory struct {
	db     *gorm.DB
	prefix string
}

// NewDirectory returns a player directory bound to the provided database
// and table prefix.
func NewDirectory(db *gorm.DB, prefix string) Directory {
	return &directory{db: db, prefix: prefix}
}

func (d *directory) WithTx(tx *gorm.DB) Directory {
	if tx == nil {
		return d
	}
	return &directory{db: tx, prefix: d.prefix}
}

func (d *directory) table() string {
	return schema.TablePlayers.PhysicalName(d.prefix)
}

func (d *directory) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := d.db.WithContext(ctx).
		Table(d.table()).
		Where("uuid = ?", id).
		Take(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
		}
		return nil, err
	}
	return &player, nil
}

func (d *directory) FindByName(ctx context.Context, name string) (*models.Player, error) {
	var player models.Player
	err := d.db.WithContext(ctx).
		Table(d.table()).
		Where("name = ?", name).
		Take(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
		}
		return nil, err
	}
	return &player, nil
}

func (d *directory) Upsert(ctx context.Context, player *models.Player) error {
	return d.db.WithContext(ctx).
		Table(d.table()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "locale"}),
		}).
		Create(player).Error
}
