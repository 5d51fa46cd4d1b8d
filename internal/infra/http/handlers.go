package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type checkoutResponse struct {
	SessionID   string `json:"session_id"`
	PaymentURL  string `json:"payment_url"`
	AmountMinor int64  `json:"amount_minor"`
}

type discountCheckResponse struct {
	Code          string `json:"code"`
	Percent       *int   `json:"percent,omitempty"`
	AmountMinor   *int64 `json:"amount_minor,omitempty"`
	DiscountMinor int64  `json:"discount_minor"`
}

type privacyRequestResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

func (s *Server) handleIssueToken(c *gin.Context) {
	c.JSON(http.StatusOK, tokenResponse{Token: s.tokens.Issue()})
}

func (s *Server) handleCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_FAILED",
			Message: "checkout submission is invalid",
			Fields:  fieldErrors(err),
		})
		return
	}
	req.normalize()

	if err := s.tokens.Validate(req.CheckoutToken); err != nil {
		// One generic signal for every token sub-reason.
		writeErrorCode(c, http.StatusForbidden, "INVALID_TOKEN", "invalid checkout token")
		return
	}

	cart, err := s.carts.Validate(c.Request.Context(), req.cartLines(), req.DiscountCode)
	if err != nil {
		s.writeError(c, err)
		return
	}

	session, err := s.payments.Create(c.Request.Context(), cart, req.customer())
	if err != nil {
		s.log.Error("create payment session failed", "error", err)
		writeErrorCode(c, http.StatusBadGateway, "PAYMENT_FAILED", "could not start payment")
		return
	}

	c.JSON(http.StatusOK, checkoutResponse{
		SessionID:   session.ID,
		PaymentURL:  session.PaymentURL,
		AmountMinor: session.AmountMinor,
	})
}

func (s *Server) handleDiscountCheck(c *gin.Context) {
	var req discountCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_FAILED",
			Message: "discount check request is invalid",
			Fields:  fieldErrors(err),
		})
		return
	}
	summary, err := s.carts.CheckDiscount(c.Request.Context(), req.Code, req.SubtotalMinor)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, discountCheckResponse{
		Code:          summary.Code,
		Percent:       summary.Percent,
		AmountMinor:   summary.AmountMinor,
		DiscountMinor: summary.DiscountMinor,
	})
}

func (s *Server) handlePrivacyRequest(c *gin.Context) {
	var req privacyRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_FAILED",
			Message: "privacy request is invalid",
			Fields:  fieldErrors(err),
		})
		return
	}
	record := domain.PrivacyRequest{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Kind:      domain.PrivacyRequestKind(req.Kind),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.privacy.Create(c.Request.Context(), record); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, privacyRequestResponse{
		RequestID: record.ID,
		Status:    "received",
	})
}

// writeError maps domain errors to the wire taxonomy. Validation-category
// errors carry their specific reason; infrastructure errors are logged in
// full and surfaced generically.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeErrorCode(c, http.StatusUnprocessableEntity, "PRODUCT_NOT_FOUND", "a product in the cart no longer exists")
	case errors.Is(err, domain.ErrUnavailable):
		writeErrorCode(c, http.StatusUnprocessableEntity, "UNAVAILABLE", "a product in the cart is not available")
	case errors.Is(err, domain.ErrInsufficientStock):
		writeErrorCode(c, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", "not enough stock for a product in the cart")
	case errors.Is(err, domain.ErrDiscountNotFound):
		writeErrorCode(c, http.StatusUnprocessableEntity, "DISCOUNT_NOT_FOUND", "unknown discount code")
	case errors.Is(err, domain.ErrDiscountInactive):
		writeErrorCode(c, http.StatusUnprocessableEntity, "DISCOUNT_INACTIVE", "discount code is not active")
	case errors.Is(err, domain.ErrDiscountExpired):
		writeErrorCode(c, http.StatusUnprocessableEntity, "DISCOUNT_EXPIRED", "discount code has expired")
	case errors.Is(err, domain.ErrDiscountExhausted):
		writeErrorCode(c, http.StatusUnprocessableEntity, "DISCOUNT_EXHAUSTED", "discount code has no uses left")
	case errors.Is(err, domain.ErrTokenInvalid):
		writeErrorCode(c, http.StatusForbidden, "INVALID_TOKEN", "invalid checkout token")
	case errors.Is(err, domain.ErrStoreUnreachable):
		s.log.Error("store unreachable", "error", err)
		writeErrorCode(c, http.StatusServiceUnavailable, "UNAVAILABLE_TRY_AGAIN", "temporarily unavailable")
	default:
		s.log.Error("request failed", "error", err)
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Code: code, Message: message})
}
