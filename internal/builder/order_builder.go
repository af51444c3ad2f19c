package builder

import (
	"strconv"
	"strings"
	"time"

	"paylater/internal/afterpay"
	"paylater/internal/models"
)

// DefaultGuestEmail is the sentinel consumer email used when the order does
// not carry one yet.
const DefaultGuestEmail = "afterpay@guest.com"

// OrderComponentBuilder maps a store order onto the provider's
// order-creation payload. It is a pure mapping: no side effects, no error
// conditions. A missing billing address is a precondition violation of the
// order, not something handled here.
type OrderComponentBuilder struct {
	Order              *models.Order
	Mode               string
	RedirectConfirmURL string
	RedirectCancelURL  string
	PopupOriginURL     string

	// CombinedNames selects the store's name handling: true means the
	// combined Name field on addresses is authoritative and gets split for
	// the consumer block; false means the discrete first/last fields are.
	CombinedNames bool

	// Now is the clock used for the pre-order comparison. Left nil it
	// defaults to time.Now.
	Now func() time.Time
}

// Build produces the provider order payload.
func (b *OrderComponentBuilder) Build() *afterpay.OrderRequest {
	return &afterpay.OrderRequest{
		Amount:            b.amount(),
		Mode:              b.Mode,
		Consumer:          b.consumer(),
		Billing:           b.contact(b.Order.BillAddress),
		Shipping:          b.contact(b.Order.ShipAddress),
		Merchant:          b.merchant(),
		Items:             b.items(),
		MerchantReference: b.Order.Number,
	}
}

func (b *OrderComponentBuilder) amount() afterpay.Money {
	return afterpay.Money{
		Amount:   formatAmount(b.Order.Total),
		Currency: b.Order.Currency,
	}
}

func (b *OrderComponentBuilder) contact(addr *models.Address) *afterpay.Contact {
	if addr == nil {
		return nil
	}

	name := addr.Name
	if !b.CombinedNames {
		name = strings.TrimSpace(addr.FirstName + " " + addr.LastName)
	}

	return &afterpay.Contact{
		Name:        name,
		Line1:       addr.Address1,
		Line2:       addr.Address2,
		Area1:       addr.City,
		Region:      addr.StateCode,
		PostCode:    addr.Zipcode,
		PhoneNumber: addr.Phone,
	}
}

func (b *OrderComponentBuilder) consumer() afterpay.Consumer {
	consumer := afterpay.Consumer{Email: b.email()}

	addr := b.Order.BillAddress
	if addr == nil {
		return consumer
	}

	if b.CombinedNames {
		consumer.GivenNames, consumer.Surname = splitName(addr.Name)
	} else {
		consumer.GivenNames = addr.FirstName
		consumer.Surname = addr.LastName
	}
	return consumer
}

func (b *OrderComponentBuilder) email() string {
	if b.Order.User != nil && b.Order.User.Email != "" {
		return b.Order.User.Email
	}
	if b.Order.Email != "" {
		return b.Order.Email
	}
	return DefaultGuestEmail
}

func (b *OrderComponentBuilder) merchant() afterpay.Merchant {
	return afterpay.Merchant{
		RedirectConfirmURL: b.RedirectConfirmURL,
		RedirectCancelURL:  b.RedirectCancelURL,
		PopupOriginURL:     b.PopupOriginURL,
	}
}

func (b *OrderComponentBuilder) items() []afterpay.Item {
	items := make([]afterpay.Item, 0, len(b.Order.LineItems))
	for i := range b.Order.LineItems {
		li := &b.Order.LineItems[i]
		items = append(items, afterpay.Item{
			Name:     li.Name,
			SKU:      li.SKU,
			Quantity: li.Quantity,
			Price: afterpay.Money{
				Amount:   formatAmount(li.Price),
				Currency: li.Currency,
			},
			PreOrder:              b.preOrder(li),
			EstimatedShipmentDate: li.EstimatedShipmentDate(),
		})
	}
	return items
}

// preOrder reports whether the line ships in the future. The estimated
// shipment date is checked at variant level first, then product level; no
// date means not a pre-order.
func (b *OrderComponentBuilder) preOrder(li *models.LineItem) bool {
	date := li.EstimatedShipmentDate()
	if date == "" {
		return false
	}
	shipment, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return shipment.After(now())
}

// splitName splits a combined full name into given names and surname at the
// first space: everything after the first word is the surname.
func splitName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
