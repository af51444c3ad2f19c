package models

import "time"

// Product is the purchasable catalog entry. EstimatedShipmentDate is the
// optional "estimatedShipmentDate" property (YYYY-MM-DD) used to flag
// pre-orders to the provider.
type Product struct {
	ID                    uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                  string    `gorm:"size:255" json:"name"`
	EstimatedShipmentDate string    `gorm:"size:10" json:"estimated_shipment_date"`
	CreatedAt             time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// Variant is a sellable variant of a product. A variant-level estimated
// shipment date overrides the product-level one.
type Variant struct {
	ID                    uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID             uint     `json:"product_id"`
	Product               *Product `json:"product"`
	SKU                   string   `gorm:"size:64" json:"sku"`
	EstimatedShipmentDate string   `gorm:"size:10" json:"estimated_shipment_date"`
}

func (Variant) TableName() string {
	return "variants"
}

// LineItem is one order line.
type LineItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint     `gorm:"index" json:"order_id"`
	VariantID uint     `json:"variant_id"`
	Variant   *Variant `json:"variant"`
	Name      string   `gorm:"size:255" json:"name"`
	SKU       string   `gorm:"size:64" json:"sku"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Currency  string   `gorm:"size:3" json:"currency"`
}

func (LineItem) TableName() string {
	return "line_items"
}

// EstimatedShipmentDate returns the variant-level date when present,
// falling back to the product-level one. Empty means not a pre-order.
func (li *LineItem) EstimatedShipmentDate() string {
	if li.Variant == nil {
		return ""
	}
	if li.Variant.EstimatedShipmentDate != "" {
		return li.Variant.EstimatedShipmentDate
	}
	if li.Variant.Product != nil {
		return li.Variant.Product.EstimatedShipmentDate
	}
	return ""
}

// ProductID returns the id of the product behind this line, or zero when
// the variant association is not loaded.
func (li *LineItem) ProductID() uint {
	if li.Variant == nil {
		return 0
	}
	return li.Variant.ProductID
}
