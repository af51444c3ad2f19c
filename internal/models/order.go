package models

import (
	"time"
)

// Checkout states an order walks through. Express checkout enters at
// "address"; the standard flow enters at "payment".
const (
	OrderStateCart     = "cart"
	OrderStateAddress  = "address"
	OrderStateDelivery = "delivery"
	OrderStatePayment  = "payment"
	OrderStateConfirm  = "confirm"
	OrderStateComplete = "complete"
)

var orderStateFlow = []string{
	OrderStateCart,
	OrderStateAddress,
	OrderStateDelivery,
	OrderStatePayment,
	OrderStateConfirm,
	OrderStateComplete,
}

// Order is the store order aggregate this integration drives through
// checkout. Totals are owned by the store; this service only transitions
// state and attaches payments/addresses.
type Order struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Number           string     `gorm:"size:32;uniqueIndex" json:"number"`
	State            string     `gorm:"size:32" json:"state"`
	Email            string     `gorm:"size:255" json:"email"`
	Currency         string     `gorm:"size:3" json:"currency"`
	Total            float64    `json:"total"`
	ItemTotal        float64    `json:"item_total"`
	LineItemTaxTotal float64    `json:"line_item_tax_total"`
	GuestToken       string     `gorm:"size:64" json:"-"`
	UserID           *uint      `json:"user_id"`
	User             *User      `json:"-"`
	BillAddressID    *uint      `json:"-"`
	BillAddress      *Address   `gorm:"foreignKey:BillAddressID" json:"bill_address"`
	ShipAddressID    *uint      `json:"-"`
	ShipAddress      *Address   `gorm:"foreignKey:ShipAddressID" json:"ship_address"`
	LineItems        []LineItem `json:"line_items"`
	Shipments        []Shipment `json:"shipments"`
	Payments         []Payment  `json:"payments"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// IsComplete reports whether the order finished checkout.
func (o *Order) IsComplete() bool {
	return o.State == OrderStateComplete
}

// NextState returns the state following the current one. Complete orders
// stay complete.
func (o *Order) NextState() string {
	for i, s := range orderStateFlow {
		if s == o.State && i+1 < len(orderStateFlow) {
			return orderStateFlow[i+1]
		}
	}
	return o.State
}

// Address is a billing or shipping address. Name handling follows the store
// configuration: either the combined Name field or the discrete
// FirstName/LastName pair is authoritative.
type Address struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	FirstName   string    `gorm:"size:255" json:"first_name"`
	LastName    string    `gorm:"size:255" json:"last_name"`
	Address1    string    `gorm:"size:255" json:"address1"`
	Address2    string    `gorm:"size:255" json:"address2"`
	City        string    `gorm:"size:255" json:"city"`
	StateCode   string    `gorm:"size:16" json:"state_code"`
	CountryCode string    `gorm:"size:2" json:"country_code"`
	Zipcode     string    `gorm:"size:16" json:"zipcode"`
	Phone       string    `gorm:"size:32" json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

// User is a registered store customer. Guests check out with an order guest
// token instead.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	APIKey    string    `gorm:"size:64;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
