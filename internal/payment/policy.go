package payment

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"paylater/internal/afterpay"
	"paylater/internal/cache"
	"paylater/internal/gateway"
	"paylater/internal/models"
)

// VoidableStates are the provider payment states in which an authorization
// can still be cancelled before capture.
var VoidableStates = []string{
	afterpay.PaymentStateAuthApproved,
	afterpay.PaymentStatePartiallyCaptured,
}

// Gateway is the slice of the payment gateway the policy consults.
type Gateway interface {
	RetrieveConfiguration(ctx context.Context) *afterpay.Configuration
	FindPayment(ctx context.Context, orderID string) *afterpay.Payment
	Void(ctx context.Context, authReference string, opts gateway.Options) *gateway.Response
}

// GatewayFactory returns the gateway for a payment method's merchant
// account. Configured once at process start.
type GatewayFactory func(pm *models.PaymentMethod) Gateway

// Policy decides payment-method eligibility for orders and voidability of
// payments. It is the piece the store's available-payment-methods filter
// consumes.
type Policy struct {
	gateways GatewayFactory
	cache    *cache.ConfigCache
	logger   *zap.Logger
}

func NewPolicy(gateways GatewayFactory, configCache *cache.ConfigCache, logger *zap.Logger) *Policy {
	return &Policy{gateways: gateways, cache: configCache, logger: logger}
}

// AvailableForOrder reports whether the method can pay for the order:
// no excluded products on the order, matching currency, and total within
// the [min, max] range inclusive. Limits come from merchant overrides,
// falling back per field to the TTL-cached provider configuration.
func (p *Policy) AvailableForOrder(ctx context.Context, pm *models.PaymentMethod, order *models.Order) bool {
	for i := range order.LineItems {
		if pm.ExcludedProduct(order.LineItems[i].ProductID()) {
			return false
		}
	}

	currency, minAmount, maxAmount := p.limits(ctx, pm)

	if currency != "" && order.Currency != currency {
		return false
	}
	if minAmount != nil && order.Total < *minAmount {
		return false
	}
	if maxAmount != nil && order.Total > *maxAmount {
		return false
	}
	return true
}

// CanVoid reports whether the payment's provider-side authorization is
// still open. Immediate-capture methods are never voidable. For deferred
// methods the current payment state is looked up live; a missing payment
// is not voidable.
func (p *Policy) CanVoid(ctx context.Context, payment *models.Payment) bool {
	pm := payment.PaymentMethod
	if pm == nil || !pm.Deferred() {
		return false
	}

	remote := p.gateways(pm).FindPayment(ctx, payment.ResponseCode)
	if remote == nil {
		return false
	}

	for _, state := range VoidableStates {
		if remote.PaymentState == state {
			return true
		}
	}
	return false
}

// TryVoid voids the payment when its source allows it. Returns the void
// response and true on success; false when the payment is not voidable or
// the void call fails.
func (p *Policy) TryVoid(ctx context.Context, payment *models.Payment) (*gateway.Response, bool) {
	if !p.CanVoid(ctx, payment) {
		return nil, false
	}

	pm := payment.PaymentMethod
	resp := p.gateways(pm).Void(ctx, payment.ResponseCode, gateway.Options{
		Deferred: pm.Deferred(),
		Amount:   payment.Amount,
		Currency: payment.Currency,
	})
	if !resp.Success {
		if p.logger != nil {
			p.logger.Warn("void failed",
				zap.String("payment", payment.Number),
				zap.String("error_code", resp.ErrorCode))
		}
		return nil, false
	}
	return resp, true
}

// limits resolves the effective currency and amount range for a method.
// Merchant-configured overrides win; absent fields fall back to the cached
// provider configuration. Unresolvable fields stay unconstrained.
func (p *Policy) limits(ctx context.Context, pm *models.PaymentMethod) (string, *float64, *float64) {
	currency := pm.Currency
	minAmount := pm.MinAmount
	maxAmount := pm.MaxAmount

	if currency != "" && minAmount != nil && maxAmount != nil {
		return currency, minAmount, maxAmount
	}

	cfg := p.providerConfiguration(ctx, pm)
	if cfg == nil {
		return currency, minAmount, maxAmount
	}

	if currency == "" && cfg.MaximumAmount != nil {
		currency = cfg.MaximumAmount.Currency
	}
	if minAmount == nil {
		minAmount = parseAmount(cfg.MinimumAmount)
	}
	if maxAmount == nil {
		maxAmount = parseAmount(cfg.MaximumAmount)
	}
	return currency, minAmount, maxAmount
}

func (p *Policy) providerConfiguration(ctx context.Context, pm *models.PaymentMethod) *afterpay.Configuration {
	gw := p.gateways(pm)
	return p.cache.Get(ctx, pm.MerchantID, func(ctx context.Context) *afterpay.Configuration {
		return gw.RetrieveConfiguration(ctx)
	})
}

func parseAmount(m *afterpay.Money) *float64 {
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return nil
	}
	return &v
}
