package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emberforge/shopledger-backend/pkg/enums"
)

// ShopData is one immutable version of a shop's configuration. Mutations
// insert a new row and repoint the shop record, so old versions stay
// addressable from the change-history log.
type ShopData struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Owner       uuid.UUID       `gorm:"column:owner;type:varchar(36);not null"`
	Item        string          `gorm:"column:item;type:text;not null"`
	Name        *string         `gorm:"column:name;type:text"`
	Type        enums.ShopType  `gorm:"column:type;not null;default:0"`
	Currency    *string         `gorm:"column:currency;type:varchar(64)"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(32,2);not null"`
	Unlimited   bool            `gorm:"column:unlimited;not null;default:false"`
	Hologram    bool            `gorm:"column:hologram;not null;default:false"`
	TaxAccount  *uuid.UUID      `gorm:"column:tax_account;type:varchar(36)"`
	Permissions json.RawMessage `gorm:"column:permissions;type:text"`
	Extra       *string         `gorm:"column:extra;type:text"`
	InvWrapper  string          `gorm:"column:inv_wrapper;type:varchar(255);not null"`
	InvLink     string          `gorm:"column:inv_symbol_link;type:text;not null"`
	CreateTime  time.Time       `gorm:"column:create_time;autoCreateTime"`
}
