package usecase

import (
	"context"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

type CatalogRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.CatalogProduct, error)
}

// DiscountRepository returns codes regardless of active state (soft-deleted
// rows excluded) so the validator can distinguish not-found from inactive.
type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

type PaymentSessions interface {
	Create(ctx context.Context, cart *domain.ValidatedCart, customer domain.Customer) (*domain.PaymentSession, error)
}

type PrivacyRequestStore interface {
	Create(ctx context.Context, req domain.PrivacyRequest) error
}
