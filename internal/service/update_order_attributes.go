package service

import (
	"context"
	"errors"
	"strconv"

	"paylater/internal/models"
)

var (
	// ErrOrderNotFound means the provider order for the token does not
	// exist (expired or bogus token).
	ErrOrderNotFound = errors.New("provider order not found")
	// ErrShippingRateNotFound means the provider order references a
	// shipping option this order does not offer.
	ErrShippingRateNotFound = errors.New("selected shipping rate not found")
)

// UpdateOrderAttributesService finalizes an express order from the live
// provider order: consumer email, selected shipping option and the payment
// carrying the checkout token.
type UpdateOrderAttributesService struct {
	Gateways GatewayFactory
	Orders   OrderStore
	Payments PaymentStore
}

func NewUpdateOrderAttributesService(gateways GatewayFactory, orders OrderStore, payments PaymentStore) *UpdateOrderAttributesService {
	return &UpdateOrderAttributesService{Gateways: gateways, Orders: orders, Payments: payments}
}

func (s *UpdateOrderAttributesService) Update(ctx context.Context, order *models.Order, orderToken string, pm *models.PaymentMethod) error {
	providerOrder := s.Gateways(pm).FindOrder(ctx, orderToken)
	if providerOrder == nil {
		return ErrOrderNotFound
	}

	rateID, err := strconv.ParseUint(providerOrder.ShippingOptionIdentifier, 10, 32)
	if err != nil {
		return ErrShippingRateNotFound
	}
	rate, err := s.Orders.FindShippingRate(uint(rateID))
	if err != nil {
		return ErrShippingRateNotFound
	}
	if err := s.Orders.SelectShippingRate(rate.ShipmentID, rate.ID); err != nil {
		return err
	}

	if providerOrder.Consumer.Email != "" {
		if err := s.Orders.UpdateEmail(order, providerOrder.Consumer.Email); err != nil {
			return err
		}
	}

	amount := order.Total
	if v, err := strconv.ParseFloat(providerOrder.Amount.Amount, 64); err == nil {
		amount = v
	}
	_, err = s.Payments.CreateWithSource(order, pm, amount, orderToken)
	return err
}
