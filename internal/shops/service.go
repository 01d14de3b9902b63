package shops

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/pkg/db"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/enums"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput captures everything needed to open a shop at a block position.
type CreateInput struct {
	Owner       uuid.UUID
	Item        string
	Name        *string
	Type        enums.ShopType
	Currency    *string
	Price       decimal.Decimal
	Unlimited   bool
	Hologram    bool
	TaxAccount  *uuid.UUID
	Permissions json.RawMessage
	InvWrapper  string
	InvLink     string
	World       string
	X, Y, Z     int
}

// View is a shop joined with its current data version.
type View struct {
	ID   int64
	Data models.ShopData
}

// Service defines shop lifecycle operations. Every mutation writes a new
// data version, repoints the shop, and records the change in the same
// transaction, so the change history never references a half-applied state.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	FindByID(ctx context.Context, id int64) (*View, error)
	FindAt(ctx context.Context, world string, x, y, z int) (*View, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*View, error)
	Rename(ctx context.Context, id int64, name *string) (*View, error)
	TransferOwnership(ctx context.Context, id int64, owner uuid.UUID) (*View, error)
	ChangeType(ctx context.Context, id int64, shopType enums.ShopType) (*View, error)
	Remove(ctx context.Context, id int64) error
}

// ServiceParams groups dependencies for the shop service.
type ServiceParams struct {
	Repo      Repository
	AuditRepo audit.Repository
	Tx        txRunner
}

type service struct {
	repo      Repository
	auditRepo audit.Repository
	tx        txRunner
}

// NewService builds a shop service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.AuditRepo == nil {
		return nil, errors.New("audit repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	return &service{repo: params.Repo, auditRepo: params.AuditRepo, tx: params.Tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop type")
	}
	if input.World == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "world is required")
	}

	data := models.ShopData{
		Owner:       input.Owner,
		Item:        input.Item,
		Name:        input.Name,
		Type:        input.Type,
		Currency:    input.Currency,
		Price:       input.Price,
		Unlimited:   input.Unlimited,
		Hologram:    input.Hologram,
		TaxAccount:  input.TaxAccount,
		Permissions: input.Permissions,
		InvWrapper:  input.InvWrapper,
		InvLink:     input.InvLink,
	}

	var shop models.Shop
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.InsertData(ctx, &data); err != nil {
			return err
		}
		shop = models.Shop{DataID: data.ID}
		if err := repo.InsertShop(ctx, &shop); err != nil {
			return err
		}
		loc := models.ShopLocation{World: input.World, X: input.X, Y: input.Y, Z: input.Z, ShopID: shop.ID}
		if err := repo.InsertLocation(ctx, &loc); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a shop already occupies this position")
			}
			return err
		}
		return s.auditRepo.WithTx(tx).InsertChange(ctx, &models.ChangeLog{
			ShopID: shop.ID,
			Type:   enums.ChangeTypeCreated,
			Before: data.ID,
			After:  data.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &View{ID: shop.ID, Data: data}, nil
}

func (s *service) FindByID(ctx context.Context, id int64) (*View, error) {
	shop, err := s.repo.FindShop(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.repo.FindData(ctx, shop.DataID)
	if err != nil {
		return nil, err
	}
	return &View{ID: shop.ID, Data: *data}, nil
}

func (s *service) FindAt(ctx context.Context, world string, x, y, z int) (*View, error) {
	shopID, err := s.repo.FindShopIDAt(ctx, world, x, y, z)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, shopID)
}

func (s *service) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*View, error) {
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return s.mutate(ctx, id, enums.ChangeTypePriceChanged, func(data *models.ShopData) {
		data.Price = price
	})
}

func (s *service) Rename(ctx context.Context, id int64, name *string) (*View, error) {
	return s.mutate(ctx, id, enums.ChangeTypeNameChanged, func(data *models.ShopData) {
		data.Name = name
	})
}

func (s *service) TransferOwnership(ctx context.Context, id int64, owner uuid.UUID) (*View, error) {
	if owner == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	return s.mutate(ctx, id, enums.ChangeTypeOwnerChanged, func(data *models.ShopData) {
		data.Owner = owner
	})
}

func (s *service) ChangeType(ctx context.Context, id int64, shopType enums.ShopType) (*View, error) {
	if !shopType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop type")
	}
	return s.mutate(ctx, id, enums.ChangeTypeTypeChanged, func(data *models.ShopData) {
		data.Type = shopType
	})
}

// mutate clones the current data version, applies the edit, inserts it as a
// new version, and repoints the shop. The old version stays addressable
// from the change record.
func (s *service) mutate(ctx context.Context, id int64, changeType enums.ChangeType, apply func(data *models.ShopData)) (*View, error) {
	var next models.ShopData
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		shop, err := repo.FindShop(ctx, id)
		if err != nil {
			return err
		}
		current, err := repo.FindData(ctx, shop.DataID)
		if err != nil {
			return err
		}

		next = *current
		next.ID = 0
		next.CreateTime = time.Time{}
		apply(&next)

		if err := repo.InsertData(ctx, &next); err != nil {
			return err
		}
		if err := repo.RepointShop(ctx, shop.ID, next.ID); err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).InsertChange(ctx, &models.ChangeLog{
			ShopID: shop.ID,
			Type:   changeType,
			Before: current.ID,
			After:  next.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &View{ID: id, Data: next}, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		shop, err := repo.FindShop(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.DeleteLocations(ctx, shop.ID); err != nil {
			return err
		}
		if err := repo.DeleteShop(ctx, shop.ID); err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).InsertChange(ctx, &models.ChangeLog{
			ShopID: shop.ID,
			Type:   enums.ChangeTypeRemoved,
			Before: shop.DataID,
			After:  shop.DataID,
		})
	})
}
