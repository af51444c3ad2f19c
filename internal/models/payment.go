package models

import (
	"strconv"
	"strings"
	"time"
)

// Payment states tracked locally.
const (
	PaymentStateCheckout  = "checkout"
	PaymentStatePending   = "pending"
	PaymentStateCompleted = "completed"
	PaymentStateVoid      = "void"
	PaymentStateFailed    = "failed"
)

// PaymentMethod is the merchant-configured provider account. Amount limits
// and currency are optional overrides; absent values fall back to what the
// provider configuration endpoint reports.
type PaymentMethod struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"size:255" json:"name"`
	Active     bool   `gorm:"default:true" json:"active"`
	MerchantID string `gorm:"size:128" json:"merchant_id"`
	SecretKey  string `gorm:"size:128" json:"-"`
	TestMode   bool   `json:"test_mode"`

	// AutoCapture true is the immediate flow (authorize and capture in one
	// step); false is the deferred flow (capture happens later against the
	// authorization). A payment keeps the mode of its method for life.
	AutoCapture bool `gorm:"default:true" json:"auto_capture"`

	MinAmount *float64 `json:"min_amount"`
	MaxAmount *float64 `json:"max_amount"`
	Currency  string   `gorm:"size:3" json:"currency"`

	// ExcludedProducts is a comma-separated list of product ids this method
	// refuses to pay for.
	ExcludedProducts string `gorm:"size:1024" json:"excluded_products"`

	PopupMode bool      `json:"popup_mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// Deferred reports whether this method runs the deferred capture flow.
func (pm *PaymentMethod) Deferred() bool {
	return !pm.AutoCapture
}

// ExcludedProductIDs parses the configured exclusion list.
func (pm *PaymentMethod) ExcludedProductIDs() []uint {
	if pm.ExcludedProducts == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(pm.ExcludedProducts, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseUint(part, 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// ExcludedProduct reports whether the given product id is excluded.
func (pm *PaymentMethod) ExcludedProduct(productID uint) bool {
	for _, id := range pm.ExcludedProductIDs() {
		if id == productID {
			return true
		}
	}
	return false
}

// PaymentSource holds the provider checkout token for one payment. The
// token is written once at checkout and never changes afterwards.
type PaymentSource struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Token           string         `gorm:"size:128;not null" json:"token"`
	PaymentMethodID uint           `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod `json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (PaymentSource) TableName() string {
	return "payment_sources"
}

// Actions lists the operations this source supports.
func (PaymentSource) Actions() []string {
	return []string{"capture", "void", "credit"}
}

// Payment ties an order to a provider payment. ResponseCode carries the
// provider payment id returned by authorization.
type Payment struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Number          string         `gorm:"size:64;uniqueIndex" json:"number"`
	OrderID         uint           `gorm:"index" json:"order_id"`
	PaymentMethodID uint           `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod `json:"-"`
	SourceID        uint           `json:"source_id"`
	Source          *PaymentSource `gorm:"foreignKey:SourceID" json:"source"`
	Amount          float64        `json:"amount"`
	Currency        string         `gorm:"size:3" json:"currency"`
	State           string         `gorm:"size:32" json:"state"`
	ResponseCode    string         `gorm:"size:128" json:"response_code"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
