package db

import (
	"context"
	"errors"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"gorm.io/gorm"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// GetByCode looks up a non-deleted code. Inactive codes are returned so the
// caller can report inactive rather than not-found.
func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	var model DiscountCodeModel
	err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.DiscountCode{
		Code:          model.Code,
		Percent:       model.Percent,
		AmountMinor:   model.AmountMinor,
		IsActive:      model.IsActive,
		ExpiresAt:     model.ExpiresAt,
		UsesRemaining: model.UsesRemaining,
	}, nil
}
