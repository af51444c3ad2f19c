package service

import (
	"context"

	"paylater/internal/afterpay"
	"paylater/internal/models"
)

// AddressInput is the address payload the provider widget posts during
// express checkout.
type AddressInput struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	Suburb      string `json:"suburb"`
	State       string `json:"state"`
	PostCode    string `json:"postcode"`
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// ShippingRateEntry is one shipping option in the express widget's format.
// Amounts are 4-decimal strings including taxes.
type ShippingRateEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ShippingAmount string `json:"shipping_amount"`
	Currency       string `json:"currency"`
	OrderAmount    string `json:"order_amount"`
}

// ShippingRateBuilder enumerates an order's shipping options for the
// express widget. Pluggable; the default is ShippingRateBuilderService.
type ShippingRateBuilder interface {
	Build(order *models.Order) []ShippingRateEntry
}

// OrderAddressUpdater maps a widget address payload onto the order.
// Pluggable; the default is UpdateOrderAddressesService.
type OrderAddressUpdater interface {
	Update(order *models.Order, addr AddressInput) error
}

// OrderAttributesUpdater syncs the final order attributes (email, shipping
// selection, payment) from the live provider order. Pluggable; the default
// is UpdateOrderAttributesService.
type OrderAttributesUpdater interface {
	Update(ctx context.Context, order *models.Order, orderToken string, pm *models.PaymentMethod) error
}

// ProviderOrderFinder looks up the live provider order for a token.
type ProviderOrderFinder interface {
	FindOrder(ctx context.Context, token string) *afterpay.CheckoutOrder
}

// GatewayFactory returns the provider order finder for a payment method's
// merchant account.
type GatewayFactory func(pm *models.PaymentMethod) ProviderOrderFinder

// OrderStore is the order persistence surface the services need.
type OrderStore interface {
	Save(order *models.Order) error
	UpdateState(order *models.Order, state string) error
	UpdateEmail(order *models.Order, email string) error
	SelectShippingRate(shipmentID, rateID uint) error
	FindShippingRate(rateID uint) (*models.ShippingRate, error)
}

// PaymentStore attaches payments to orders.
type PaymentStore interface {
	CreateWithSource(order *models.Order, pm *models.PaymentMethod, amount float64, token string) (*models.Payment, error)
}
