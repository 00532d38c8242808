package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	const secret = "secret_123"
	sig := Sign(secret, "order_A", "pay_B")

	if !VerifySignature(secret, "order_A", "pay_B", sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, "order_A", "pay_B", sig+"00") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature(secret, "order_X", "pay_B", sig) {
		t.Error("signature accepted for a different order")
	}
	if VerifySignature("other_secret", "order_A", "pay_B", sig) {
		t.Error("signature accepted under a different secret")
	}
	if VerifySignature(secret, "order_A", "pay_B", "") {
		t.Error("empty signature accepted")
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders" {
				t.Errorf("path = %s", r.URL.Path)
			}
			user, pass, ok := r.BasicAuth()
			if !ok || user != "key_id" || pass != "key_secret" {
				t.Errorf("basic auth = %s/%s", user, pass)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["amount"] != float64(120000) || body["currency"] != "INR" {
				t.Errorf("body = %v", body)
			}
			json.NewEncoder(w).Encode(Order{
				ID: "order_live_1", Amount: 120000, Currency: "INR", Receipt: "booking_1", Status: "created",
			})
		}))
		defer srv.Close()

		c := NewClient("key_id", "key_secret").WithBaseURL(srv.URL)
		order, err := c.CreateOrder(context.Background(), CreateOrderParams{
			Amount:   120000,
			Currency: "INR",
			Receipt:  "booking_1",
			Notes:    map[string]string{"court_id": "c1"},
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if order.ID != "order_live_1" || order.Status != "created" {
			t.Errorf("order = %+v", order)
		}
	})

	t.Run("gateway error surfaces description", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
		}))
		defer srv.Close()

		c := NewClient("key_id", "key_secret").WithBaseURL(srv.URL)
		_, err := c.CreateOrder(context.Background(), CreateOrderParams{Amount: 1, Currency: "INR"})
		if err == nil {
			t.Fatal("expected error")
		}
		if got := err.Error(); got != "razorpay order create: amount exceeds maximum (BAD_REQUEST_ERROR)" {
			t.Errorf("err = %q", got)
		}
	})

	t.Run("opaque failure status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient("key_id", "key_secret").WithBaseURL(srv.URL)
		if _, err := c.CreateOrder(context.Background(), CreateOrderParams{Amount: 1, Currency: "INR"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
