package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the header webhook callers sign their payloads with.
const SignatureHeader = "X-Payment-Signature"

// webhookTolerance bounds how stale a signed timestamp may be.
const webhookTolerance = 5 * time.Minute

var errBadSignature = errors.New("invalid webhook signature")

// VerifySignature checks a "t=<unixSeconds>,v1=<hexHmac>" header against the
// raw request body. The signed payload is "<t>.<body>".
func VerifySignature(secret, header string, body []byte, now time.Time) error {
	if secret == "" || header == "" {
		return errBadSignature
	}
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return errBadSignature
	}
	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errBadSignature
	}
	age := now.Sub(time.Unix(seconds, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return errBadSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	if len(sig) != len(want) {
		return errBadSignature
	}
	if subtle.ConstantTimeCompare([]byte(sig), []byte(want)) != 1 {
		return errBadSignature
	}
	return nil
}
