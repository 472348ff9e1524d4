package db_models

type CreditPackage struct {
	BaseModel
	Name               string // Vietnamese display name
	NameEn             string
	Description        string
	Credits            int64
	PriceVND           int64 `gorm:"column:price_vnd"`
	DiscountPercentage int
	IsPopular          bool
	DisplayOrder       int
	Active             bool `gorm:"index"`
}
