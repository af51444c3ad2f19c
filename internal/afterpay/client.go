package afterpay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"paylater/internal/pkg/httpclient"
)

const (
	productionURL = "https://api.afterpay.com"
	sandboxURL    = "https://api.us-sandbox.afterpay.com"
)

// Config holds per-merchant credentials for the provider API.
type Config struct {
	MerchantID string
	SecretKey  string
	TestMode   bool
	UserAgent  string

	// BaseURL overrides the production/sandbox host. Used by tests.
	BaseURL string
}

// Client talks to the provider's v2 API. All calls authenticate with
// merchant id + secret key via basic auth.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a provider API client for one merchant account.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = productionURL
		if cfg.TestMode {
			baseURL = sandboxURL
		}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = NewUserAgentGenerator(cfg.MerchantID, "").Generate()
	}

	h := httpclient.New().
		WithTimeout(30 * time.Second).
		WithBaseURL(baseURL).
		WithBasicAuth(cfg.MerchantID, cfg.SecretKey).
		WithUserAgent(ua).
		WithHeader("Accept", "application/json")

	return &Client{http: h}
}

// CreateCheckout creates a provider checkout for the given order payload.
func (c *Client) CreateCheckout(ctx context.Context, order *OrderRequest) (*Checkout, error) {
	var out Checkout
	if err := c.do(ctx, "POST", "/v2/checkouts", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthorizePayment authorizes a deferred payment for the given checkout token.
func (c *Client) AuthorizePayment(ctx context.Context, token string) (*Payment, error) {
	var out Payment
	body := map[string]string{"token": token}
	if err := c.do(ctx, "POST", "/v2/payments/auth", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CapturePayment captures an immediate-flow payment by checkout token.
func (c *Client) CapturePayment(ctx context.Context, token string) (*Payment, error) {
	var out Payment
	body := map[string]string{"token": token}
	if err := c.do(ctx, "POST", "/v2/payments/capture", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeferredCapture captures a previously authorized payment by provider
// payment id.
func (c *Client) DeferredCapture(ctx context.Context, paymentID string, amount Money) (*Payment, error) {
	var out Payment
	body := map[string]Money{"amount": amount}
	path := fmt.Sprintf("/v2/payments/%s/capture", paymentID)
	if err := c.do(ctx, "POST", path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VoidPayment cancels an open authorization.
func (c *Client) VoidPayment(ctx context.Context, paymentID string, amount Money) (*Payment, error) {
	var out Payment
	body := map[string]Money{"amount": amount}
	path := fmt.Sprintf("/v2/payments/%s/void", paymentID)
	if err := c.do(ctx, "POST", path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReversePayment reverses whatever the given checkout token produced on the
// provider side. Fired best-effort after a failed auth or capture.
func (c *Client) ReversePayment(ctx context.Context, token string) error {
	path := fmt.Sprintf("/v2/payments/token:%s/reversal", token)
	return c.do(ctx, "POST", path, nil, nil)
}

// RefundPayment refunds part or all of a captured payment.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount Money, merchantReference string) (*Refund, error) {
	var out Refund
	body := map[string]interface{}{
		"amount":            amount,
		"merchantReference": merchantReference,
	}
	path := fmt.Sprintf("/v2/payments/%s/refund", paymentID)
	if err := c.do(ctx, "POST", path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment fetches a payment by provider order id.
func (c *Client) GetPayment(ctx context.Context, orderID string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, "GET", "/v2/payments/"+orderID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrder fetches the live checkout order by token.
func (c *Client) GetOrder(ctx context.Context, token string) (*CheckoutOrder, error) {
	var out CheckoutOrder
	if err := c.do(ctx, "GET", "/v2/checkouts/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConfiguration fetches the merchant configuration (amount limits).
func (c *Client) GetConfiguration(ctx context.Context) (*Configuration, error) {
	var out Configuration
	if err := c.do(ctx, "GET", "/v2/configuration", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.Request().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	var resp *resty.Response
	var err error
	switch method {
	case "GET":
		resp, err = req.Get(path)
	default:
		resp, err = req.Post(path)
	}
	if err != nil {
		return newTransportError(err)
	}

	if !httpclient.StatusOK(resp.StatusCode()) {
		return newAPIError(resp.StatusCode(), resp.Body())
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return &Error{
				StatusCode: resp.StatusCode(),
				Code:       ErrCodeProvider,
				Message:    fmt.Sprintf("unexpected response format: %v", err),
			}
		}
	}
	return nil
}
