package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

const (
	tokenMaxAge    = 30 * time.Minute
	tokenClockSkew = 60 * time.Second
)

// Sub-reasons stay internal; the HTTP boundary collapses all of them to one
// generic invalid-token response.
var (
	errTokenMalformed = fmt.Errorf("%w: malformed", domain.ErrTokenInvalid)
	errTokenExpired   = fmt.Errorf("%w: expired", domain.ErrTokenInvalid)
	errTokenFuture    = fmt.Errorf("%w: future-dated", domain.ErrTokenInvalid)
	errTokenSignature = fmt.Errorf("%w: signature mismatch", domain.ErrTokenInvalid)
)

// CheckoutTokens issues and verifies the short-lived proof-of-flow token a
// client must fetch before submitting a checkout. Tokens are
// "<unixMillis>.<hex(hmacSHA256(secret, millis))>" and are never persisted.
type CheckoutTokens struct {
	secret []byte
	now    func() time.Time
}

func NewCheckoutTokens(secret string, now func() time.Time) *CheckoutTokens {
	if now == nil {
		now = time.Now
	}
	return &CheckoutTokens{secret: []byte(secret), now: now}
}

func (s *CheckoutTokens) Issue() string {
	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	return millis + "." + hex.EncodeToString(s.sign(millis))
}

func (s *CheckoutTokens) Validate(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return errTokenMalformed
	}
	millis, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return errTokenMalformed
	}
	age := s.now().Sub(time.UnixMilli(millis))
	if age > tokenMaxAge {
		return errTokenExpired
	}
	if age < -tokenClockSkew {
		return errTokenFuture
	}
	want := hex.EncodeToString(s.sign(parts[0]))
	// Length mismatch is an immediate reject; the constant-time walk only
	// runs over equal-length inputs.
	if len(parts[1]) != len(want) {
		return errTokenSignature
	}
	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(want)) != 1 {
		return errTokenSignature
	}
	return nil
}

func (s *CheckoutTokens) sign(millis string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(millis))
	return mac.Sum(nil)
}
