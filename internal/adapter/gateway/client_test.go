package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func cardIntent() Intent {
	return Intent{
		Reference:   "ORD-1",
		AmountCents: 9900,
		Method:      model.MethodCreditCard,
		Details: model.MethodDetails{Card: &model.CardDetails{
			Number:       "4111111111111111",
			HolderName:   "JOHN DOE",
			ExpiryMonth:  12,
			ExpiryYear:   2031,
			CVV:          "123",
			Installments: 3,
		}},
		Customer: model.CustomerSnapshot{Name: "John Doe", Email: "john@example.com"},
	}
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreateIntentCardAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/intents" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Fatal("expected idempotency key header")
		}
		var req intentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "credit_card" || req.CardNumber == "" || req.Installments != 3 {
			t.Fatalf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"gateway_ref":"gw-1","status":"processing","card_brand":"visa","card_last4":"1111"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.CreateIntent(context.Background(), cardIntent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != model.PaymentStatusProcessing || result.CardBrand != "visa" || result.CardLast4 != "1111" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCreateIntentPix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req intentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.CustomerTax != "123.456.789-00" {
			t.Fatalf("expected payer tax id forwarded, got %q", req.CustomerTax)
		}
		_, _ = w.Write([]byte(`{"gateway_ref":"gw-2","status":"pending","pix_code":"000201qrcode"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.CreateIntent(context.Background(), Intent{
		Reference:   "ORD-2",
		AmountCents: 4900,
		Method:      model.MethodPix,
		Details:     model.MethodDetails{Pix: &model.PixDetails{PayerTaxID: "123.456.789-00"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != model.PaymentStatusPending || result.PixCode == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCreateIntentDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"status":"declined","decline_reason":"insufficient funds"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.CreateIntent(context.Background(), cardIntent())
	var declined Declined
	if !errors.As(err, &declined) {
		t.Fatalf("expected declined error, got %v", err)
	}
	if declined.Reason != "insufficient funds" {
		t.Fatalf("unexpected reason %q", declined.Reason)
	}
}

func TestCreateIntentDeclinedDefaultReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"declined"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.CreateIntent(context.Background(), cardIntent())
	var declined Declined
	if !errors.As(err, &declined) {
		t.Fatalf("expected declined error, got %v", err)
	}
	if declined.Reason != "rejected by issuer" {
		t.Fatalf("unexpected reason %q", declined.Reason)
	}
}

func TestCreateIntentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.CreateIntent(context.Background(), cardIntent()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateIntentUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"weird"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.CreateIntent(context.Background(), cardIntent()); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
