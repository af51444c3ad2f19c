package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"paylater/internal/afterpay"
	"paylater/internal/gateway"
	"paylater/internal/models"
)

func checkoutHandler(gw *fakeCheckoutGateway, order *models.Order) (*CheckoutsHandler, *fakeOrderRepo) {
	orders := &fakeOrderRepo{orders: map[string]*models.Order{}}
	if order != nil {
		orders.orders[order.Number] = order
	}
	methods := &fakePaymentMethodRepo{methods: map[uint]*models.PaymentMethod{1: {ID: 1}}}
	factory := func(pm *models.PaymentMethod) CheckoutGateway { return gw }
	h := NewCheckoutsHandler(testRepos(orders, &fakePaymentRepo{}, methods, nil), factory, testConfig(), testLogger())
	return h, orders
}

func TestCreateCheckout(t *testing.T) {
	gw := &fakeCheckoutGateway{
		resp: &gateway.Response{
			Success: true,
			Checkout: &afterpay.Checkout{
				Token:               "tok-1",
				Expires:             "2024-03-01T00:00:00Z",
				RedirectCheckoutURL: "https://portal.example.com/tok-1",
			},
		},
	}
	order := &models.Order{Number: "R1", Currency: "USD", Total: 10}
	h, _ := checkoutHandler(gw, order)

	c, rec := newTestContext(http.MethodPost, "/checkouts",
		`{"order_number":"R1","payment_method_id":1}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["token"] != "tok-1" {
		t.Errorf("token = %q, want tok-1", body["token"])
	}
	if body["redirectCheckoutUrl"] != "https://portal.example.com/tok-1" {
		t.Errorf("redirectCheckoutUrl = %q", body["redirectCheckoutUrl"])
	}
}

func TestCreateCheckoutDefaultCallbackURLs(t *testing.T) {
	gw := &fakeCheckoutGateway{
		resp: &gateway.Response{Success: true, Checkout: &afterpay.Checkout{Token: "tok-1"}},
	}
	order := &models.Order{Number: "R1", Currency: "USD"}
	h, _ := checkoutHandler(gw, order)

	c, _ := newTestContext(http.MethodPost, "/checkouts",
		`{"order_number":"R1","payment_method_id":1}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := "https://pay.example.com/callbacks/confirm?order_number=R1&payment_method_id=1"
	if gw.payload.Merchant.RedirectConfirmURL != want {
		t.Errorf("confirm URL = %q, want %q", gw.payload.Merchant.RedirectConfirmURL, want)
	}
}

func TestCreateCheckoutExplicitCallbackURLs(t *testing.T) {
	gw := &fakeCheckoutGateway{
		resp: &gateway.Response{Success: true, Checkout: &afterpay.Checkout{Token: "tok-1"}},
	}
	order := &models.Order{Number: "R1", Currency: "USD"}
	h, _ := checkoutHandler(gw, order)

	c, _ := newTestContext(http.MethodPost, "/checkouts",
		`{"order_number":"R1","payment_method_id":1,"redirect_confirm_url":"https://store.example.com/ok","redirect_cancel_url":"https://store.example.com/no"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gw.payload.Merchant.RedirectConfirmURL != "https://store.example.com/ok" {
		t.Errorf("confirm URL = %q, want caller-provided", gw.payload.Merchant.RedirectConfirmURL)
	}
	if gw.payload.Merchant.RedirectCancelURL != "https://store.example.com/no" {
		t.Errorf("cancel URL = %q, want caller-provided", gw.payload.Merchant.RedirectCancelURL)
	}
}

func TestCreateCheckoutProviderFailure(t *testing.T) {
	gw := &fakeCheckoutGateway{
		resp: &gateway.Response{
			Success:   false,
			Message:   "Amount is invalid",
			ErrorCode: "invalid_object",
		},
	}
	order := &models.Order{Number: "R1", Currency: "USD"}
	h, _ := checkoutHandler(gw, order)

	c, rec := newTestContext(http.MethodPost, "/checkouts",
		`{"order_number":"R1","payment_method_id":1}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["errorCode"] != "invalid_object" {
		t.Errorf("errorCode = %q, want invalid_object", body["errorCode"])
	}
}

func TestCreateCheckoutUnknownOrder(t *testing.T) {
	h, _ := checkoutHandler(&fakeCheckoutGateway{}, nil)

	c, rec := newTestContext(http.MethodPost, "/checkouts",
		`{"order_number":"R404","payment_method_id":1}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
