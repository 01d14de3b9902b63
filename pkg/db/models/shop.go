package models

// Shop is the stable shop identity. It points at the current ShopData
// version; repointing it is how mutations take effect.
type Shop struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement"`
	DataID int64 `gorm:"column:data;not null"`
}

// ShopLocation maps a block position to the shop occupying it. The compound
// primary key guarantees one shop per position.
type ShopLocation struct {
	World  string `gorm:"column:world;type:varchar(32);primaryKey"`
	X      int    `gorm:"column:x;primaryKey"`
	Y      int    `gorm:"column:y;primaryKey"`
	Z      int    `gorm:"column:z;primaryKey"`
	ShopID int64  `gorm:"column:shop;not null"`
}
