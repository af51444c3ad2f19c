package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paylater/internal/afterpay"
	"paylater/internal/gateway"
	"paylater/internal/models"
)

type fakeOrderRepo struct {
	orders       map[string]*models.Order
	stateUpdates []string
	emailUpdates []string
}

func (f *fakeOrderRepo) FindByNumber(number string) (*models.Order, error) {
	order, ok := f.orders[number]
	if !ok {
		return nil, errors.New("record not found")
	}
	return order, nil
}

func (f *fakeOrderRepo) UpdateState(order *models.Order, state string) error {
	order.State = state
	f.stateUpdates = append(f.stateUpdates, state)
	return nil
}

func (f *fakeOrderRepo) UpdateEmail(order *models.Order, email string) error {
	order.Email = email
	f.emailUpdates = append(f.emailUpdates, email)
	return nil
}

type fakePaymentRepo struct {
	created []string // tokens
	err     error
}

func (f *fakePaymentRepo) CreateWithSource(order *models.Order, pm *models.PaymentMethod, amount float64, token string) (*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, token)
	return &models.Payment{Number: "P1", Amount: amount, State: models.PaymentStateCheckout}, nil
}

type fakePaymentMethodRepo struct {
	methods map[uint]*models.PaymentMethod
}

func (f *fakePaymentMethodRepo) FindActiveByID(id uint) (*models.PaymentMethod, error) {
	pm, ok := f.methods[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return pm, nil
}

func (f *fakePaymentMethodRepo) FindActive() ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	for _, pm := range f.methods {
		out = append(out, *pm)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) FindByAPIKey(apiKey string) (*models.User, error) {
	user, ok := f.users[apiKey]
	if !ok {
		return nil, errors.New("record not found")
	}
	return user, nil
}

type fakeCheckoutGateway struct {
	resp    *gateway.Response
	payload *afterpay.OrderRequest
}

func (f *fakeCheckoutGateway) CreateCheckout(ctx context.Context, order *afterpay.OrderRequest) *gateway.Response {
	f.payload = order
	return f.resp
}

func testConfig() *Config {
	return &Config{
		FrontendHost: "https://store.example.com",
		PublicHost:   "https://pay.example.com",
	}
}

func testRepos(orders *fakeOrderRepo, payments *fakePaymentRepo, methods *fakePaymentMethodRepo, users *fakeUserRepo) *Repos {
	return &Repos{
		Order:         orders,
		Payment:       payments,
		PaymentMethod: methods,
		User:          users,
	}
}

func newTestContext(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testLogger() *zap.Logger { return zap.NewNop() }
