package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/config"
)

func originTestRouter(guard *OriginGuard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(guard.Middleware())
	r.POST("/mutate", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func prodGuardConfig() config.Config {
	return config.Config{
		AppEnv:               "production",
		SiteURL:              "https://dottydots.no",
		InternalAPIKey:       "internal-key",
		PaymentWebhookSecret: "hook-secret",
	}
}

func TestOriginGuardAllowsListedOrigin(t *testing.T) {
	r := originTestRouter(NewOriginGuard(prodGuardConfig()))

	for _, origin := range []string{"https://dottydots.no", "https://www.dottydots.no"} {
		req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("origin %s: status %d, want 204", origin, w.Code)
		}
	}
}

func TestOriginGuardRejectsForeignOrigin(t *testing.T) {
	r := originTestRouter(NewOriginGuard(prodGuardConfig()))

	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
	if strings.Contains(w.Body.String(), "evil.example") {
		t.Fatalf("rejected origin must not be reflected: %s", w.Body.String())
	}
}

func TestOriginGuardRefererFallback(t *testing.T) {
	r := originTestRouter(NewOriginGuard(prodGuardConfig()))

	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set("Referer", "https://dottydots.no/shop/cart?step=2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", w.Code)
	}
}

func TestOriginGuardIgnoresReads(t *testing.T) {
	r := originTestRouter(NewOriginGuard(prodGuardConfig()))

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", w.Code)
	}
}

func TestOriginGuardNoOriginProduction(t *testing.T) {
	r := originTestRouter(NewOriginGuard(prodGuardConfig()))

	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403 without origin in production", w.Code)
	}
}

func TestOriginGuardNoOriginDevelopment(t *testing.T) {
	cfg := prodGuardConfig()
	cfg.AppEnv = "development"
	r := originTestRouter(NewOriginGuard(cfg))

	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, want looseness outside production", w.Code)
	}

	// Dev origins are also on the allowlist outside production.
	req = httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("localhost origin: status %d, want 204", w.Code)
	}
}

func TestOriginGuardInternalBearerExempt(t *testing.T) {
	r := originTestRouter(NewOriginGuard(prodGuardConfig()))

	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set("Authorization", "Bearer internal-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, want internal caller exemption", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403 for wrong key", w.Code)
	}
}

func TestOriginGuardWebhookSignatureExempt(t *testing.T) {
	guard := NewOriginGuard(prodGuardConfig())
	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return at }
	r := originTestRouter(guard)

	body := `{"event":"payment.completed"}`
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte("hook-secret"))
	fmt.Fprintf(mac, "%s.%s", ts, body)
	header := "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader(body))
	req.Header.Set("X-Payment-Signature", header)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, want webhook exemption", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader(body))
	req.Header.Set("X-Payment-Signature", "t="+ts+",v1=deadbeef")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403 for bad signature", w.Code)
	}
}
