// Package payment integrates with the Razorpay payment gateway.  The
// service only needs two things from Razorpay: creating an order to
// collect money against, and verifying the HMAC signature Razorpay
// attaches to a completed checkout.  Order creation is a network
// call; signature verification is a purely local computation.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Order is the subset of a Razorpay order the booking flow needs.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrderParams describes a gateway order to be created.  Amount
// is in paise.  Notes carry reconciliation metadata (court, date,
// slot, user) that shows up in the Razorpay dashboard.
type CreateOrderParams struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Gateway creates remote payment orders.  The HTTP client below is
// the production implementation; tests substitute an in-memory fake.
type Gateway interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (Order, error)
}

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client talks to the Razorpay Orders API using key id/secret basic
// auth.  Requests are bounded by the underlying http.Client timeout;
// a timeout is treated as a hard failure and never retried here.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// NewClient returns a Razorpay client for the given credentials.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint; used in tests against a
// local httptest server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// CreateOrder creates a Razorpay order for the given amount.  Any
// non-2xx response or transport error is returned as-is so the
// caller can abort its transaction.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (Order, error) {
	body := map[string]any{
		"amount":   params.Amount,
		"currency": params.Currency,
		"receipt":  params.Receipt,
	}
	if len(params.Notes) > 0 {
		body["notes"] = params.Notes
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Order{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return Order{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay order create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Description != "" {
			return Order{}, fmt.Errorf("razorpay order create: %s (%s)", apiErr.Error.Description, apiErr.Error.Code)
		}
		return Order{}, fmt.Errorf("razorpay order create: unexpected status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, fmt.Errorf("razorpay order create: decode response: %w", err)
	}
	return order, nil
}

// VerifySignature checks that signature is a valid HMAC-SHA256 of
// "orderID|paymentID" under the gateway key secret.  Razorpay signs
// exactly this concatenation on checkout completion.  The comparison
// is constant-time; verification never touches the network.
func VerifySignature(keySecret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature Razorpay would produce for the given
// order and payment ids.  Exported for tests and tooling.
func Sign(keySecret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
