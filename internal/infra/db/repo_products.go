package db

import (
	"context"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListByIDs returns the catalog records matching ids. Soft-deleted rows are
// excluded, so a deleted product simply shrinks the result set and the caller
// detects the mismatch.
func (r *ProductRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.CatalogProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CatalogProduct, 0, len(models))
	for _, model := range models {
		out = append(out, domain.CatalogProduct{
			ID:            model.ID,
			Title:         model.Title,
			PriceMinor:    model.PriceMinor,
			IsAvailable:   model.IsAvailable,
			StockQuantity: model.StockQuantity,
			ProductType:   domain.ProductType(model.ProductType),
			ImageURL:      model.ImageURL,
		})
	}
	return out, nil
}
