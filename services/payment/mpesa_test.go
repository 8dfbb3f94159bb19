package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sokoni/models"

	"go.uber.org/zap"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"0712345678":      "254712345678",
		"+254712345678":   "254712345678",
		"254 712 345 678": "254712345678",
		"712345678":       "254712345678",
		"0110-123-456":    "254110123456",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
	for _, bad := range []string{"", "12345", "07123456789", "07123abc78"} {
		if _, err := NormalizePhone(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestMpesaGatewayInitiatePush(t *testing.T) {
	var got stkPushBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(models.PushResponse{
			CheckoutRequestID:   "ws_CO_1",
			ResponseCode:        "0",
			ResponseDescription: "Success. Request accepted for processing",
		})
	}))
	defer srv.Close()

	g := NewMpesaGateway(srv.URL, "key", "https://example.com/cb", 5*time.Second, zap.NewNop())
	resp, err := g.InitiatePush(context.Background(), models.PaymentRequest{
		Phone: "0712345678", Amount: 1499.5, Reference: "bk-1-1700000000000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Accepted() || resp.CheckoutRequestID != "ws_CO_1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got.Phone != "254712345678" || got.Amount != 1500 || got.CallbackURL != "https://example.com/cb" {
		t.Fatalf("unexpected request body %+v", got)
	}
}

func TestMpesaGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.PushResponse{
			ResponseCode:        "1",
			ResponseDescription: "Invalid PhoneNumber",
		})
	}))
	defer srv.Close()

	g := NewMpesaGateway(srv.URL, "", "", 5*time.Second, zap.NewNop())
	resp, err := g.InitiatePush(context.Background(), models.PaymentRequest{Phone: "0712345678", Amount: 10, Reference: "r"})
	if err != nil {
		t.Fatalf("rejection must not be a transport error: %v", err)
	}
	if resp.Accepted() || resp.ResponseDescription != "Invalid PhoneNumber" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestMpesaGatewayServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewMpesaGateway(srv.URL, "", "", 5*time.Second, zap.NewNop())
	if _, err := g.InitiatePush(context.Background(), models.PaymentRequest{Phone: "0712345678", Amount: 10, Reference: "r"}); err == nil {
		t.Fatal("expected error for 502 without a response code")
	}
}
