package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"paylater/internal/afterpay"
	"paylater/internal/cache"
	"paylater/internal/gateway"
	"paylater/internal/models"
	"paylater/internal/payment"
)

type fakePolicyGateway struct {
	config   *afterpay.Configuration
	payment  *afterpay.Payment
	voidResp *gateway.Response
}

func (f *fakePolicyGateway) RetrieveConfiguration(ctx context.Context) *afterpay.Configuration {
	return f.config
}

func (f *fakePolicyGateway) FindPayment(ctx context.Context, orderID string) *afterpay.Payment {
	return f.payment
}

func (f *fakePolicyGateway) Void(ctx context.Context, authReference string, opts gateway.Options) *gateway.Response {
	return f.voidResp
}

type fakePaymentsRepo struct {
	payments     map[string]*models.Payment
	stateUpdates []string
}

func (f *fakePaymentsRepo) FindByNumber(number string) (*models.Payment, error) {
	pay, ok := f.payments[number]
	if !ok {
		return nil, errNotFound
	}
	return pay, nil
}

func (f *fakePaymentsRepo) UpdateState(pay *models.Payment, state string) error {
	pay.State = state
	f.stateUpdates = append(f.stateUpdates, state)
	return nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "record not found" }

func methodsHandler(gw *fakePolicyGateway, orders *fakeOrderRepo, methods *fakePaymentMethodRepo, payments *fakePaymentsRepo) *PaymentMethodsHandler {
	factory := func(pm *models.PaymentMethod) payment.Gateway { return gw }
	policy := payment.NewPolicy(factory, cache.New(nil, time.Hour, nil), nil)
	return NewPaymentMethodsHandler(orders, methods, payments, policy, testLogger())
}

func TestAvailableFiltersByOrder(t *testing.T) {
	order := &models.Order{Number: "R1", Currency: "USD", Total: 20}
	orders := &fakeOrderRepo{orders: map[string]*models.Order{"R1": order}}
	methods := &fakePaymentMethodRepo{methods: map[uint]*models.PaymentMethod{
		1: {ID: 1, Name: "In range", Currency: "USD", MinAmount: fptr(1), MaxAmount: fptr(100)},
		2: {ID: 2, Name: "Too low max", Currency: "USD", MinAmount: fptr(1), MaxAmount: fptr(10)},
	}}
	h := methodsHandler(&fakePolicyGateway{}, orders, methods, &fakePaymentsRepo{})

	c, rec := newTestContext(http.MethodGet, "/payment_methods?order_number=R1", "")

	if err := h.Available(c); err != nil {
		t.Fatalf("Available() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		PaymentMethods []models.PaymentMethod `json:"payment_methods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.PaymentMethods) != 1 || body.PaymentMethods[0].ID != 1 {
		t.Errorf("payment methods = %+v, want only the in-range method", body.PaymentMethods)
	}
}

func TestAvailableUnknownOrder(t *testing.T) {
	h := methodsHandler(&fakePolicyGateway{}, &fakeOrderRepo{orders: map[string]*models.Order{}}, &fakePaymentMethodRepo{}, &fakePaymentsRepo{})

	c, rec := newTestContext(http.MethodGet, "/payment_methods?order_number=R404", "")

	if err := h.Available(c); err != nil {
		t.Fatalf("Available() error = %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestVoidOpenAuthorization(t *testing.T) {
	pay := &models.Payment{
		Number:        "P1",
		ResponseCode:  "100101",
		Amount:        10,
		Currency:      "USD",
		State:         models.PaymentStatePending,
		PaymentMethod: &models.PaymentMethod{AutoCapture: false},
	}
	payments := &fakePaymentsRepo{payments: map[string]*models.Payment{"P1": pay}}
	gw := &fakePolicyGateway{
		payment:  &afterpay.Payment{PaymentState: afterpay.PaymentStateAuthApproved},
		voidResp: &gateway.Response{Success: true, Message: "Transaction voided"},
	}
	h := methodsHandler(gw, &fakeOrderRepo{}, &fakePaymentMethodRepo{}, payments)

	c, rec := newTestContext(http.MethodPost, "/payments/P1/void", "")
	c.SetParamNames("number")
	c.SetParamValues("P1")

	if err := h.Void(c); err != nil {
		t.Fatalf("Void() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(payments.stateUpdates) != 1 || payments.stateUpdates[0] != models.PaymentStateVoid {
		t.Errorf("state updates = %v, want [void]", payments.stateUpdates)
	}
}

func TestVoidImmediatePaymentRejected(t *testing.T) {
	pay := &models.Payment{
		Number:        "P1",
		ResponseCode:  "100101",
		State:         models.PaymentStateCompleted,
		PaymentMethod: &models.PaymentMethod{AutoCapture: true},
	}
	payments := &fakePaymentsRepo{payments: map[string]*models.Payment{"P1": pay}}
	h := methodsHandler(&fakePolicyGateway{}, &fakeOrderRepo{}, &fakePaymentMethodRepo{}, payments)

	c, rec := newTestContext(http.MethodPost, "/payments/P1/void", "")
	c.SetParamNames("number")
	c.SetParamValues("P1")

	if err := h.Void(c); err != nil {
		t.Fatalf("Void() error = %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["errorCode"] != "void_not_allowed" {
		t.Errorf("errorCode = %q, want void_not_allowed", body["errorCode"])
	}
	if len(payments.stateUpdates) != 0 {
		t.Errorf("state updates = %v, want none", payments.stateUpdates)
	}
}

func TestVoidCapturedPaymentRejected(t *testing.T) {
	pay := &models.Payment{
		Number:        "P1",
		ResponseCode:  "100101",
		State:         models.PaymentStatePending,
		PaymentMethod: &models.PaymentMethod{AutoCapture: false},
	}
	payments := &fakePaymentsRepo{payments: map[string]*models.Payment{"P1": pay}}
	gw := &fakePolicyGateway{
		payment: &afterpay.Payment{PaymentState: afterpay.PaymentStateCaptured},
	}
	h := methodsHandler(gw, &fakeOrderRepo{}, &fakePaymentMethodRepo{}, payments)

	c, rec := newTestContext(http.MethodPost, "/payments/P1/void", "")
	c.SetParamNames("number")
	c.SetParamValues("P1")

	if err := h.Void(c); err != nil {
		t.Fatalf("Void() error = %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func fptr(v float64) *float64 { return &v }
