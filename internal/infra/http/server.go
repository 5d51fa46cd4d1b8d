package http

import (
	"log/slog"
	"net/http"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/config"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine
	log *slog.Logger

	limiter  domain.RateLimiter
	tokens   *usecase.CheckoutTokens
	carts    *usecase.CartValidator
	payments usecase.PaymentSessions
	privacy  usecase.PrivacyRequestStore
	origin   *OriginGuard

	checkoutLimit domain.RateLimitConfig
	tokenLimit    domain.RateLimitConfig
	discountLimit domain.RateLimitConfig
	privacyLimit  domain.RateLimitConfig

	dbReady bool
}

type ServerDeps struct {
	RateLimiter domain.RateLimiter
	Tokens      *usecase.CheckoutTokens
	Carts       *usecase.CartValidator
	Payments    usecase.PaymentSessions
	Privacy     usecase.PrivacyRequestStore
	DBReady     bool
}

func NewServer(cfg config.Config, deps ServerDeps, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		r:        r,
		log:      log,
		limiter:  deps.RateLimiter,
		tokens:   deps.Tokens,
		carts:    deps.Carts,
		payments: deps.Payments,
		privacy:  deps.Privacy,
		origin:   NewOriginGuard(cfg),
		dbReady:  deps.DBReady,

		checkoutLimit: domain.RateLimitConfig{MaxRequests: cfg.CheckoutRateMax, Window: cfg.RateWindow()},
		tokenLimit:    domain.RateLimitConfig{MaxRequests: cfg.TokenRateMax, Window: cfg.RateWindow()},
		discountLimit: domain.RateLimitConfig{MaxRequests: cfg.DiscountRateMax, Window: cfg.RateWindow()},
		privacyLimit:  domain.RateLimitConfig{MaxRequests: cfg.PrivacyRateMax, Window: cfg.PrivacyWindow()},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", s.handleHealthz)

	api := s.r.Group("/api")
	api.Use(s.origin.Middleware())
	{
		api.GET("/checkout/token", s.rateLimit("checkout_token", s.tokenLimit), s.handleIssueToken)
		api.POST("/checkout", s.rateLimit("checkout", s.checkoutLimit), s.handleCheckout)
		api.POST("/discount/check", s.rateLimit("discount_check", s.discountLimit), s.handleDiscountCheck)
		api.POST("/privacy/request", s.rateLimit("privacy_request", s.privacyLimit), s.handlePrivacyRequest)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	mode := "no-db"
	if s.dbReady {
		mode = "db"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.r
}
