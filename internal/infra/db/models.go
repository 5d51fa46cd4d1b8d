package db

import (
	"time"

	"gorm.io/gorm"
)

type ProductModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Title         string `gorm:"not null"`
	PriceMinor    int64  `gorm:"not null"`
	IsAvailable   bool   `gorm:"not null;default:true"`
	StockQuantity *int
	ProductType   string `gorm:"not null"`
	ImageURL      string
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ProductModel) TableName() string { return "products" }

type DiscountCodeModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Code          string `gorm:"uniqueIndex;not null"`
	Percent       *int
	AmountMinor   *int64
	IsActive      bool `gorm:"not null;default:true"`
	ExpiresAt     *time.Time
	UsesRemaining *int
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (DiscountCodeModel) TableName() string { return "discount_codes" }

type PrivacyRequestModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"index;not null"`
	Kind      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (PrivacyRequestModel) TableName() string { return "privacy_requests" }
