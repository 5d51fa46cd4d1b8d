package domain

import "time"

type ProductType string

const (
	ProductTypeOriginal ProductType = "original"
	ProductTypePrint    ProductType = "print"
)

// CatalogProduct is the system-of-record view of a product. Prices and
// availability always come from here, never from the client.
type CatalogProduct struct {
	ID            string
	Title         string
	PriceMinor    int64
	IsAvailable   bool
	StockQuantity *int
	ProductType   ProductType
	ImageURL      string
}

// CartLineRequest is what the client claims to want. Only the product id and
// quantity are ever read from it.
type CartLineRequest struct {
	ProductID string
	Quantity  int
}

// CartLine is a re-derived line carrying catalog data plus the requested
// quantity.
type CartLine struct {
	ProductID  string
	Title      string
	PriceMinor int64
	Quantity   int
	ImageURL   string
}

func (l CartLine) TotalMinor() int64 {
	return l.PriceMinor * int64(l.Quantity)
}

type ValidatedCart struct {
	Items               []CartLine
	DiscountAmountMinor int64
	ArtistLevyMinor     int64
}

func (c ValidatedCart) SubtotalMinor() int64 {
	var sum int64
	for _, line := range c.Items {
		sum += line.TotalMinor()
	}
	return sum
}

func (c ValidatedCart) TotalMinor() int64 {
	total := c.SubtotalMinor() - c.DiscountAmountMinor + c.ArtistLevyMinor
	if total < 0 {
		total = 0
	}
	return total
}

// DiscountCode as stored. When both Percent and AmountMinor are set, Percent
// wins.
type DiscountCode struct {
	Code          string
	Percent       *int
	AmountMinor   *int64
	IsActive      bool
	ExpiresAt     *time.Time
	UsesRemaining *int
}

// DiscountSummary is the preview returned by the standalone discount check.
type DiscountSummary struct {
	Code          string
	Percent       *int
	AmountMinor   *int64
	DiscountMinor int64
}

type ShippingAddress struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

type Customer struct {
	Email   string
	Phone   string
	Address ShippingAddress
}

type PaymentSession struct {
	ID          string
	PaymentURL  string
	AmountMinor int64
}

type PrivacyRequestKind string

const (
	PrivacyRequestAccess   PrivacyRequestKind = "access"
	PrivacyRequestDeletion PrivacyRequestKind = "deletion"
)

type PrivacyRequest struct {
	ID        string
	Email     string
	Kind      PrivacyRequestKind
	CreatedAt time.Time
}
