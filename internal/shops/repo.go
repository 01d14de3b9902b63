package shops

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

// Repository handles shop persistence: the immutable data versions, the
// shop id indirection, and the block-position map.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertData(ctx context.Context, data *models.ShopData) error
	FindData(ctx context.Context, id int64) (*models.ShopData, error)
	InsertShop(ctx context.Context, shop *models.Shop) error
	FindShop(ctx context.Context, id int64) (*models.Shop, error)
	RepointShop(ctx context.Context, shopID, dataID int64) error
	DeleteShop(ctx context.Context, id int64) error
	InsertLocation(ctx context.Context, loc *models.ShopLocation) error
	FindShopIDAt(ctx context.Context, world string, x, y, z int) (int64, error)
	DeleteLocations(ctx context.Context, shopID int64) error
}

type repository struct {
	db     *gorm.DB
	prefix string
}

// NewRepository returns a shop repository bound to the provided database
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

func (r *repository) InsertData(ctx context.Context, data *models.ShopData) error {
	return r.db.WithContext(ctx).
		Table(schema.TableData.PhysicalName(r.prefix)).
		Create(data).Error
}

func (r *repository) FindData(ctx context.Context, id int64) (*models.ShopData, error) {
	var data models.ShopData
	err := r.db.WithContext(ctx).
		Table(schema.TableData.PhysicalName(r.prefix)).
		Where("id = ?", id).
		Take(&data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop data not found")
		}
		return nil, err
	}
	return &data, nil
}

func (r *repository) InsertShop(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Table(schema.TableShops.PhysicalName(r.prefix)).
		Create(shop).Error
}

func (r *repository) FindShop(ctx context.Context, id int64) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Table(schema.TableShops.PhysicalName(r.prefix)).
		Where("id = ?", id).
		Take(&shop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, err
	}
	return &shop, nil
}

func (r *repository) RepointShop(ctx context.Context, shopID, dataID int64) error {
	result := r.db.WithContext(ctx).
		Table(schema.TableShops.PhysicalName(r.prefix)).
		Where("id = ?", shopID).
		Update("data", dataID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return nil
}

func (r *repository) DeleteShop(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Table(schema.TableShops.PhysicalName(r.prefix)).
		Where("id = ?", id).
		Delete(&models.Shop{}).Error
}

func (r *repository) InsertLocation(ctx context.Context, loc *models.ShopLocation) error {
	return r.db.WithContext(ctx).
		Table(schema.TableShopMap.PhysicalName(r.prefix)).
		Create(loc).Error
}

func (r *repository) FindShopIDAt(ctx context.Context, world string, x, y, z int) (int64, error) {
	var loc models.ShopLocation
	err := r.db.WithContext(ctx).
		Table(schema.TableShopMap.PhysicalName(r.prefix)).
		Where("world = ? AND x = ? AND y = ? AND z = ?", world, x, y, z).
		Take(&loc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no shop at location")
		}
		return 0, err
	}
	return loc.ShopID, nil
}

func (r *repository) DeleteLocations(ctx context.Context, shopID int64) error {
	return r.db.WithContext(ctx).
		Table(schema.TableShopMap.PhysicalName(r.prefix)).
		Where("shop = ?", shopID).
		Delete(&models.ShopLocation{}).Error
}
