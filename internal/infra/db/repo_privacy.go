package db

import (
	"context"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"gorm.io/gorm"
)

type PrivacyRequestRepository struct {
	db *gorm.DB
}

func NewPrivacyRequestRepository(db *gorm.DB) *PrivacyRequestRepository {
	return &PrivacyRequestRepository{db: db}
}

func (r *PrivacyRequestRepository) Create(ctx context.Context, req domain.PrivacyRequest) error {
	model := PrivacyRequestModel{
		ID:        req.ID,
		Email:     req.Email,
		Kind:      string(req.Kind),
		CreatedAt: req.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
