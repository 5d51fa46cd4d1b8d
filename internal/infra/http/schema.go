package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type checkoutItem struct {
	ProductID string `json:"product_id" binding:"required,uuid4"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=100"`
}

type shippingAddress struct {
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"omitempty,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,no_postal"`
	Country    string `json:"country" binding:"required,max=100"`
}

// checkoutRequest is the full submission contract. Client-sent pricing fields
// (discount amounts, shipping cost, levy) are deliberately not declared here;
// the authoritative values are recomputed server-side.
type checkoutRequest struct {
	Items           []checkoutItem  `json:"items" binding:"required,min=1,max=50,dive"`
	CustomerEmail   string          `json:"customer_email" binding:"required,email,max=254"`
	CustomerPhone   string          `json:"customer_phone" binding:"omitempty,no_phone"`
	ShippingAddress shippingAddress `json:"shipping_address" binding:"required"`
	DiscountCode    string          `json:"discount_code" binding:"omitempty,max=50"`
	PrivacyAccepted bool            `json:"privacy_accepted" binding:"required"`
	CheckoutToken   string          `json:"checkout_token" binding:"required"`
}

// normalize applies the canonical forms after a successful bind: lowercase
// email, space-stripped phone, uppercased discount code.
func (r *checkoutRequest) normalize() {
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = strings.ReplaceAll(r.CustomerPhone, " ", "")
	r.DiscountCode = strings.ToUpper(strings.TrimSpace(r.DiscountCode))
}

func (r *checkoutRequest) cartLines() []domain.CartLineRequest {
	lines := make([]domain.CartLineRequest, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, domain.CartLineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

func (r *checkoutRequest) customer() domain.Customer {
	return domain.Customer{
		Email: r.CustomerEmail,
		Phone: r.CustomerPhone,
		Address: domain.ShippingAddress{
			Line1:      r.ShippingAddress.Line1,
			Line2:      r.ShippingAddress.Line2,
			City:       r.ShippingAddress.City,
			PostalCode: r.ShippingAddress.PostalCode,
			Country:    r.ShippingAddress.Country,
		},
	}
}

type discountCheckRequest struct {
	Code          string `json:"code" binding:"required,max=50"`
	SubtotalMinor int64  `json:"subtotal_minor" binding:"omitempty,min=0"`
}

type privacyRequestBody struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Kind  string `json:"kind" binding:"required,oneof=access deletion"`
}

var (
	// National 8-digit format with optional +47 prefix; spaces tolerated.
	phonePattern  = regexp.MustCompile(`^(\+47)?\d{8}$`)
	postalPattern = regexp.MustCompile(`^\d{4}$`)
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("no_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	_ = v.RegisterValidation("no_postal", func(fl validator.FieldLevel) bool {
		return postalPattern.MatchString(fl.Field().String())
	})
}

// fieldErrors flattens validator failures into {field: reason} for the
// caller's form UI. Non-validator bind failures come back as a single body
// entry.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "malformed request body"}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return fields
}

func fieldPath(fe validator.FieldError) string {
	// Namespace starts with the struct type name; drop it.
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid4":
		return "must be a valid product id"
	case "min":
		return "is below the minimum of " + fe.Param()
	case "max":
		return "exceeds the maximum of " + fe.Param()
	case "no_phone":
		return "must be an 8-digit Norwegian number, optionally prefixed with +47"
	case "no_postal":
		return "must be a 4-digit postal code"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
