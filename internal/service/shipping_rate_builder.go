package service

import (
	"strconv"

	"paylater/internal/models"
)

// ShippingRateBuilderService enumerates the shipping options of an order
// for the express widget. The order amount per option is the item total
// plus the option's cost, its taxes, and the line-item taxes.
type ShippingRateBuilderService struct{}

func NewShippingRateBuilderService() *ShippingRateBuilderService {
	return &ShippingRateBuilderService{}
}

func (s *ShippingRateBuilderService) Build(order *models.Order) []ShippingRateEntry {
	var entries []ShippingRateEntry
	for i := range order.Shipments {
		shipment := &order.Shipments[i]
		for j := range shipment.ShippingRates {
			rate := &shipment.ShippingRates[j]
			orderAmount := order.ItemTotal + rate.Cost + rate.TaxAmount + order.LineItemTaxTotal

			entries = append(entries, ShippingRateEntry{
				ID:             strconv.FormatUint(uint64(rate.ID), 10),
				Name:           rate.Name,
				Description:    rate.DisplayPrice(),
				ShippingAmount: formatRateAmount(rate.AmountWithTaxes()),
				Currency:       rate.Currency,
				OrderAmount:    formatRateAmount(orderAmount),
			})
		}
	}
	return entries
}

func formatRateAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
