package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

const (
	artistLevyPercent = 5
	// Resale-right levy applies to artwork lines above 2,500 NOK (in øre).
	artistLevyThresholdMinor = 250000
)

// CartValidator re-derives an authoritative cart from client-supplied product
// ids and quantities. Client-declared prices never enter any computation; the
// catalog is the only price source. All reads are side-effect free.
type CartValidator struct {
	Catalog   CatalogRepository
	Discounts DiscountRepository

	// Now is injectable for expiry tests; nil means time.Now.
	Now func() time.Time
}

func (v *CartValidator) Validate(ctx context.Context, items []domain.CartLineRequest, discountCode string) (*domain.ValidatedCart, error) {
	ids := distinctIDs(items)
	products, err := v.Catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("load products", err)
	}
	if len(products) != len(ids) {
		// A phantom or deleted id was referenced.
		return nil, domain.ErrProductNotFound
	}
	byID := make(map[string]domain.CatalogProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		if !product.IsAvailable {
			return nil, domain.ErrUnavailable
		}
		if product.ProductType == domain.ProductTypePrint && product.StockQuantity != nil && *product.StockQuantity < item.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		lines = append(lines, domain.CartLine{
			ProductID:  product.ID,
			Title:      product.Title,
			PriceMinor: product.PriceMinor,
			Quantity:   item.Quantity,
			ImageURL:   product.ImageURL,
		})
	}

	cart := &domain.ValidatedCart{Items: lines}
	subtotal := cart.SubtotalMinor()

	if code := NormalizeDiscountCode(discountCode); code != "" {
		discount, err := v.lookupDiscount(ctx, code)
		if err != nil {
			return nil, err
		}
		cart.DiscountAmountMinor = discountAmount(discount, subtotal)
	}

	cart.ArtistLevyMinor = artistLevy(lines)
	return cart, nil
}

// CheckDiscount backs the standalone discount lookup endpoint. A zero
// subtotal yields the code's raw terms with no computed amount.
func (v *CartValidator) CheckDiscount(ctx context.Context, code string, subtotalMinor int64) (*domain.DiscountSummary, error) {
	normalized := NormalizeDiscountCode(code)
	if normalized == "" {
		return nil, domain.ErrDiscountNotFound
	}
	discount, err := v.lookupDiscount(ctx, normalized)
	if err != nil {
		return nil, err
	}
	summary := &domain.DiscountSummary{
		Code:        discount.Code,
		Percent:     discount.Percent,
		AmountMinor: discount.AmountMinor,
	}
	if subtotalMinor > 0 {
		summary.DiscountMinor = discountAmount(discount, subtotalMinor)
	}
	return summary, nil
}

func (v *CartValidator) lookupDiscount(ctx context.Context, code string) (*domain.DiscountCode, error) {
	discount, err := v.Discounts.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, storeErr("load discount", err)
	}
	if !discount.IsActive {
		return nil, domain.ErrDiscountInactive
	}
	if discount.ExpiresAt != nil && v.now().After(*discount.ExpiresAt) {
		return nil, domain.ErrDiscountExpired
	}
	if discount.UsesRemaining != nil && *discount.UsesRemaining <= 0 {
		return nil, domain.ErrDiscountExhausted
	}
	return discount, nil
}

func (v *CartValidator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// discountAmount: percent wins when both terms are set; a fixed amount is
// capped at the subtotal so the total never goes negative. Integer division
// floors the percent case.
func discountAmount(discount *domain.DiscountCode, subtotalMinor int64) int64 {
	if discount.Percent != nil {
		return subtotalMinor * int64(*discount.Percent) / 100
	}
	if discount.AmountMinor != nil {
		if *discount.AmountMinor > subtotalMinor {
			return subtotalMinor
		}
		return *discount.AmountMinor
	}
	return 0
}

// artistLevy applies the 5% resale-right surcharge per qualifying line: a
// line whose extended total exceeds the threshold contributes
// floor(lineTotal*5/100), and contributions are summed across lines.
func artistLevy(lines []domain.CartLine) int64 {
	var levy int64
	for _, line := range lines {
		total := line.TotalMinor()
		if total > artistLevyThresholdMinor {
			levy += total * artistLevyPercent / 100
		}
	}
	return levy
}

func distinctIDs(items []domain.CartLineRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnreachable, err)
}
