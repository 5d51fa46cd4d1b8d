package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

// Client creates hosted payment sessions from validated carts. Only the
// request/response contract matters here; the provider's internals are out of
// scope.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sessionLine struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int    `json:"quantity"`
}

type sessionRequest struct {
	Lines           []sessionLine `json:"lines"`
	DiscountMinor   int64         `json:"discount_minor"`
	ArtistLevyMinor int64         `json:"artist_levy_minor"`
	AmountMinor     int64         `json:"amount_minor"`
	Currency        string        `json:"currency"`
	CustomerEmail   string        `json:"customer_email"`
}

type sessionResponse struct {
	ID         string `json:"id"`
	PaymentURL string `json:"payment_url"`
}

func (c *Client) Create(ctx context.Context, cart *domain.ValidatedCart, customer domain.Customer) (*domain.PaymentSession, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, errors.New("payment client not configured")
	}
	lines := make([]sessionLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, sessionLine{
			ProductID:  item.ProductID,
			Title:      item.Title,
			PriceMinor: item.PriceMinor,
			Quantity:   item.Quantity,
		})
	}
	body, err := json.Marshal(sessionRequest{
		Lines:           lines,
		DiscountMinor:   cart.DiscountAmountMinor,
		ArtistLevyMinor: cart.ArtistLevyMinor,
		AmountMinor:     cart.TotalMinor(),
		Currency:        "NOK",
		CustomerEmail:   customer.Email,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create payment session: status %d", resp.StatusCode)
	}
	var session sessionResponse
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.PaymentURL == "" {
		return nil, errors.New("payment session response missing fields")
	}
	return &domain.PaymentSession{
		ID:          session.ID,
		PaymentURL:  session.PaymentURL,
		AmountMinor: cart.TotalMinor(),
	}, nil
}
