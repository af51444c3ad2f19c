package afterpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		MerchantID: "merchant-1",
		SecretKey:  "secret",
		BaseURL:    srv.URL,
	})
}

func TestCreateCheckout(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody OrderRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Checkout{
			Token:               "checkout-token",
			Expires:             "2024-03-01T00:00:00Z",
			RedirectCheckoutURL: "https://portal.example.com/checkout-token",
		})
	})

	checkout, err := client.CreateCheckout(context.Background(), &OrderRequest{
		Amount:            Money{Amount: "25.50", Currency: "USD"},
		MerchantReference: "R1234567",
	})
	if err != nil {
		t.Fatalf("CreateCheckout() error = %v", err)
	}

	if gotPath != "/v2/checkouts" {
		t.Errorf("path = %q, want /v2/checkouts", gotPath)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("authorization = %q, want basic auth", gotAuth)
	}
	if gotBody.MerchantReference != "R1234567" {
		t.Errorf("merchantReference = %q, want R1234567", gotBody.MerchantReference)
	}
	if checkout.Token != "checkout-token" {
		t.Errorf("token = %q, want checkout-token", checkout.Token)
	}
}

func TestAuthorizePaymentDeclined(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"errorCode":"payment_declined","errorId":"e1","message":"Payment declined"}`))
	})

	_, err := client.AuthorizePayment(context.Background(), "tok")
	if err == nil {
		t.Fatalf("AuthorizePayment() error = nil, want declined")
	}

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("AuthorizePayment() error type = %T, want *Error", err)
	}
	if apiErr.Code != ErrCodePaymentDeclined {
		t.Errorf("code = %q, want %q", apiErr.Code, ErrCodePaymentDeclined)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("statusCode = %d, want 402", apiErr.StatusCode)
	}
}

func TestDeferredCapturePath(t *testing.T) {
	var gotPath string
	var gotBody map[string]Money

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Payment{ID: "100101", Status: StatusApproved})
	})

	payment, err := client.DeferredCapture(context.Background(), "100101", Money{Amount: "10.00", Currency: "USD"})
	if err != nil {
		t.Fatalf("DeferredCapture() error = %v", err)
	}

	if gotPath != "/v2/payments/100101/capture" {
		t.Errorf("path = %q, want /v2/payments/100101/capture", gotPath)
	}
	if gotBody["amount"].Amount != "10.00" {
		t.Errorf("amount = %+v, want 10.00", gotBody["amount"])
	}
	if payment.Status != StatusApproved {
		t.Errorf("status = %q, want %q", payment.Status, StatusApproved)
	}
}

func TestReversePaymentPath(t *testing.T) {
	var gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.ReversePayment(context.Background(), "tok-1"); err != nil {
		t.Fatalf("ReversePayment() error = %v", err)
	}
	if gotPath != "/v2/payments/token:tok-1/reversal" {
		t.Errorf("path = %q, want /v2/payments/token:tok-1/reversal", gotPath)
	}
}

func TestGetConfiguration(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v2/configuration" {
			t.Errorf("request = %s %s, want GET /v2/configuration", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Configuration{
			MinimumAmount: &Money{Amount: "1.00", Currency: "USD"},
			MaximumAmount: &Money{Amount: "2000.00", Currency: "USD"},
		})
	})

	cfg, err := client.GetConfiguration(context.Background())
	if err != nil {
		t.Fatalf("GetConfiguration() error = %v", err)
	}
	if cfg.MaximumAmount == nil || cfg.MaximumAmount.Amount != "2000.00" {
		t.Errorf("maximum = %+v, want 2000.00", cfg.MaximumAmount)
	}
}

func TestUserAgent(t *testing.T) {
	gen := NewUserAgentGenerator("merchant-1", "https://store.example.com")
	ua := gen.Generate()

	if !strings.HasPrefix(ua, "Paylater/"+Version) {
		t.Errorf("user agent = %q, want Paylater/%s prefix", ua, Version)
	}
	if !strings.Contains(ua, "Merchant/merchant-1") {
		t.Errorf("user agent = %q, want merchant id", ua)
	}
	if !strings.HasSuffix(ua, "https://store.example.com") {
		t.Errorf("user agent = %q, want store URL suffix", ua)
	}
}
