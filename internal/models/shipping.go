package models

import "fmt"

// Shipment groups the shipping rates offered for an order.
type Shipment struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       uint           `gorm:"index" json:"order_id"`
	ShippingRates []ShippingRate `json:"shipping_rates"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// ShippingRate is one shipping option with its cost and taxes.
type ShippingRate struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ShipmentID uint    `gorm:"index" json:"shipment_id"`
	Name       string  `gorm:"size:255" json:"name"`
	Cost       float64 `json:"cost"`
	TaxAmount  float64 `json:"tax_amount"`
	Currency   string  `gorm:"size:3" json:"currency"`
	Selected   bool    `json:"selected"`
}

func (ShippingRate) TableName() string {
	return "shipping_rates"
}

// AmountWithTaxes is the rate cost including its taxes.
func (r *ShippingRate) AmountWithTaxes() float64 {
	return r.Cost + r.TaxAmount
}

// DisplayPrice renders the rate cost for the provider widget.
func (r *ShippingRate) DisplayPrice() string {
	return fmt.Sprintf("%.2f %s", r.Cost, r.Currency)
}
