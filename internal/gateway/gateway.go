// Package gateway exposes the standard payment operations (authorize,
// capture, purchase, credit, void) over the provider API. Checkout
// creation and void are driven by this service's own HTTP endpoints; the
// rest form the operation surface a host platform's payment processing
// calls when settling or refunding orders placed through this
// integration.
package gateway

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"paylater/internal/afterpay"
	"paylater/internal/models"
)

// ErrCodeVoidNotAllowed is returned when void is attempted on an
// immediate-capture payment method.
const ErrCodeVoidNotAllowed = "void_not_allowed"

// ProviderAPI is the slice of the provider client the gateway drives.
type ProviderAPI interface {
	CreateCheckout(ctx context.Context, order *afterpay.OrderRequest) (*afterpay.Checkout, error)
	AuthorizePayment(ctx context.Context, token string) (*afterpay.Payment, error)
	CapturePayment(ctx context.Context, token string) (*afterpay.Payment, error)
	DeferredCapture(ctx context.Context, paymentID string, amount afterpay.Money) (*afterpay.Payment, error)
	VoidPayment(ctx context.Context, paymentID string, amount afterpay.Money) (*afterpay.Payment, error)
	ReversePayment(ctx context.Context, token string) error
	RefundPayment(ctx context.Context, paymentID string, amount afterpay.Money, merchantReference string) (*afterpay.Refund, error)
	GetPayment(ctx context.Context, orderID string) (*afterpay.Payment, error)
	GetOrder(ctx context.Context, token string) (*afterpay.CheckoutOrder, error)
	GetConfiguration(ctx context.Context) (*afterpay.Configuration, error)
}

// Options carries the per-operation context a gateway call needs beyond its
// positional arguments: the capture mode and source token of the payment
// being operated on, and refund/void amounts.
type Options struct {
	Deferred          bool
	SourceToken       string
	Currency          string
	Amount            float64
	MerchantReference string
}

// Gateway adapts the generic payment operations (authorize, capture,
// purchase, credit, void) to provider API calls. One gateway serves one
// merchant account.
type Gateway struct {
	api    ProviderAPI
	logger *zap.Logger
}

// New builds a gateway for the given merchant credentials.
func New(cfg afterpay.Config, logger *zap.Logger) *Gateway {
	return &Gateway{api: afterpay.NewClient(cfg), logger: logger}
}

// NewWithAPI builds a gateway around an existing provider API. Used by
// tests and by callers that share a client.
func NewWithAPI(api ProviderAPI, logger *zap.Logger) *Gateway {
	return &Gateway{api: api, logger: logger}
}

// Authorize authorizes a payment. In the deferred flow this calls the
// provider auth endpoint with the source token and returns the provider
// payment id as the authorization reference. In the immediate flow
// authorization is implicit in capture, so no remote call is made.
func (g *Gateway) Authorize(ctx context.Context, amount float64, source *models.PaymentSource, opts Options) *Response {
	deferred := opts.Deferred
	if source.PaymentMethod != nil {
		deferred = source.PaymentMethod.Deferred()
	}

	if !deferred {
		return successResponse("Transaction approved", "")
	}

	payment, err := g.api.AuthorizePayment(ctx, source.Token)
	if err != nil {
		g.reverse(ctx, source.Token)
		return failureResponse(err)
	}

	resp := successResponse("Transaction approved", payment.ID)
	resp.Payment = payment
	return resp
}

// Capture captures an authorized payment. The deferred flow captures
// against the authorization reference; the immediate flow captures against
// the source token, re-sending the amount. Any non-approved status is a
// failure and triggers a best-effort reversal with the response's token.
func (g *Gateway) Capture(ctx context.Context, amount float64, authReference string, opts Options) *Response {
	var payment *afterpay.Payment
	var err error

	if opts.Deferred {
		payment, err = g.api.DeferredCapture(ctx, authReference, money(amount, opts.Currency))
	} else {
		payment, err = g.api.CapturePayment(ctx, opts.SourceToken)
	}

	if err == nil && payment.Status != afterpay.StatusApproved {
		err = &afterpay.Error{
			Code:    afterpay.ErrCodePaymentDeclined,
			Message: afterpay.DeclinedMessage,
		}
	}
	if err != nil {
		token := opts.SourceToken
		if payment != nil && payment.Token != "" {
			token = payment.Token
		}
		g.reverse(ctx, token)
		return failureResponse(err)
	}

	resp := successResponse("Transaction captured", payment.ID)
	resp.Payment = payment
	return resp
}

// Purchase is authorize followed by capture. A failed authorize
// short-circuits and capture is never attempted.
func (g *Gateway) Purchase(ctx context.Context, amount float64, source *models.PaymentSource, opts Options) *Response {
	if source.PaymentMethod != nil {
		opts.Deferred = source.PaymentMethod.Deferred()
	}
	opts.SourceToken = source.Token

	result := g.Authorize(ctx, amount, source, opts)
	if !result.Success {
		return result
	}
	return g.Capture(ctx, amount, result.Authorization, opts)
}

// Credit refunds amount against a captured payment.
func (g *Gateway) Credit(ctx context.Context, amount float64, authReference string, opts Options) *Response {
	refund, err := g.api.RefundPayment(ctx, authReference, money(amount, opts.Currency), opts.MerchantReference)
	if err != nil {
		return failureResponse(err)
	}

	resp := successResponse(fmt.Sprintf("Transaction credited with %.2f", amount), refund.RefundID)
	resp.Refund = refund
	return resp
}

// Void cancels an open authorization. Immediate-capture methods have
// nothing to void; the request is rejected without a remote call.
func (g *Gateway) Void(ctx context.Context, authReference string, opts Options) *Response {
	if !opts.Deferred {
		return &Response{
			Success:   false,
			Message:   "Transaction can't be voided",
			ErrorCode: ErrCodeVoidNotAllowed,
		}
	}

	payment, err := g.api.VoidPayment(ctx, authReference, money(opts.Amount, opts.Currency))
	if err != nil {
		return failureResponse(err)
	}

	resp := successResponse("Transaction voided", payment.ID)
	resp.Payment = payment
	return resp
}

// CreateCheckout creates a provider checkout from a built order payload.
func (g *Gateway) CreateCheckout(ctx context.Context, order *afterpay.OrderRequest) *Response {
	checkout, err := g.api.CreateCheckout(ctx, order)
	if err != nil {
		return failureResponse(err)
	}

	resp := successResponse("Checkout created", "")
	resp.Checkout = checkout
	return resp
}

// FindPayment looks up a provider payment. Advisory: errors collapse to nil.
func (g *Gateway) FindPayment(ctx context.Context, orderID string) *afterpay.Payment {
	payment, err := g.api.GetPayment(ctx, orderID)
	if err != nil {
		g.logDebug("provider payment lookup failed", err)
		return nil
	}
	return payment
}

// FindOrder looks up a live provider order by token. Advisory: errors
// collapse to nil.
func (g *Gateway) FindOrder(ctx context.Context, token string) *afterpay.CheckoutOrder {
	order, err := g.api.GetOrder(ctx, token)
	if err != nil {
		g.logDebug("provider order lookup failed", err)
		return nil
	}
	return order
}

// RetrieveConfiguration fetches the merchant configuration. Advisory:
// errors collapse to nil.
func (g *Gateway) RetrieveConfiguration(ctx context.Context) *afterpay.Configuration {
	cfg, err := g.api.GetConfiguration(ctx)
	if err != nil {
		g.logDebug("provider configuration lookup failed", err)
		return nil
	}
	return cfg
}

// reverse fires a best-effort reversal so a failed auth or capture does not
// leave a dangling authorization on the provider side. Its outcome is not
// surfaced.
func (g *Gateway) reverse(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := g.api.ReversePayment(ctx, token); err != nil && g.logger != nil {
		g.logger.Warn("payment reversal failed", zap.Error(err))
	}
}

func (g *Gateway) logDebug(msg string, err error) {
	if g.logger != nil {
		g.logger.Debug(msg, zap.Error(err))
	}
}

func money(amount float64, currency string) afterpay.Money {
	return afterpay.Money{
		Amount:   strconv.FormatFloat(amount, 'f', 2, 64),
		Currency: currency,
	}
}
