package domain

import "errors"

var (
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrOriginRejected    = errors.New("invalid origin")
	ErrTokenInvalid      = errors.New("invalid checkout token")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnavailable       = errors.New("product unavailable")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDiscountNotFound  = errors.New("discount code not found")
	ErrDiscountInactive  = errors.New("discount code inactive")
	ErrDiscountExpired   = errors.New("discount code expired")
	ErrDiscountExhausted = errors.New("discount code exhausted")
	ErrNotFound          = errors.New("not found")
	ErrStoreUnreachable  = errors.New("store unreachable")
)
