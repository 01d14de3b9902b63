package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emberforge/shopledger-backend/pkg/enums"
)

// TransactionLog records one attempted money movement. Error is null iff the
// transfer succeeded. Rows are never updated or deleted by business code.
type TransactionLog struct {
	ID          int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Time        time.Time        `gorm:"column:time;autoCreateTime"`
	FromAccount uuid.UUID        `gorm:"column:from_account;type:varchar(36);not null"`
	ToAccount   uuid.UUID        `gorm:"column:to_account;type:varchar(36);not null"`
	World       string           `gorm:"column:world;type:varchar(32);not null"`
	Currency    *string          `gorm:"column:currency;type:varchar(64)"`
	Amount      decimal.Decimal  `gorm:"column:amount;type:decimal(32,2);not null"`
	TaxAmount   decimal.Decimal  `gorm:"column:tax_amount;type:decimal(32,2);not null;default:0"`
	TaxAccount  *uuid.UUID       `gorm:"column:tax_account;type:varchar(36)"`
	Error       *string          `gorm:"column:error;type:text"`
}

// PurchaseLog records one completed shop purchase, covering all money legs.
type PurchaseLog struct {
	ID       int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Time     time.Time       `gorm:"column:time;autoCreateTime"`
	ShopID   int64           `gorm:"column:shop;not null"`
	DataID   int64           `gorm:"column:data;not null"`
	Buyer    uuid.UUID       `gorm:"column:buyer;type:varchar(36);not null"`
	ShopType string          `gorm:"column:type;type:varchar(32);not null"`
	Amount   int             `gorm:"column:amount;not null"`
	Money    decimal.Decimal `gorm:"column:money;type:decimal(32,2);not null"`
	Tax      decimal.Decimal `gorm:"column:tax;type:decimal(32,2);not null;default:0"`
}

// ChangeLog records one shop mutation as a pair of data version ids.
type ChangeLog struct {
	ID     int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Time   time.Time        `gorm:"column:time;autoCreateTime"`
	ShopID int64            `gorm:"column:shop;not null"`
	Type   enums.ChangeType `gorm:"column:type;type:varchar(32);not null"`
	Before int64            `gorm:"column:before_data;not null"`
	After  int64            `gorm:"column:after_data;not null"`
}

// EventLog is the catch-all log table for operational events.
type EventLog struct {
	ID   int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Time time.Time       `gorm:"column:time;autoCreateTime"`
	Type string          `gorm:"column:type;type:varchar(255);not null"`
	Data json.RawMessage `gorm:"column:data;type:text;not null"`
}
