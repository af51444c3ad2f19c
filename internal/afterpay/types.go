package afterpay

// Money is an amount/currency pair as the provider expects it on the wire:
// the amount is a decimal string, not a number.
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Contact is a billing or shipping contact block.
type Contact struct {
	Name        string `json:"name"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	Area1       string `json:"area1"`
	Region      string `json:"region,omitempty"`
	PostCode    string `json:"postcode"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Consumer identifies the paying customer.
type Consumer struct {
	Email       string `json:"email"`
	GivenNames  string `json:"givenNames,omitempty"`
	Surname     string `json:"surname,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Merchant carries the redirect URLs for the hosted checkout.
type Merchant struct {
	RedirectConfirmURL string `json:"redirectConfirmUrl"`
	RedirectCancelURL  string `json:"redirectCancelUrl"`
	PopupOriginURL     string `json:"popupOriginUrl,omitempty"`
}

// Item is a single order line.
type Item struct {
	Name                  string `json:"name"`
	SKU                   string `json:"sku"`
	Quantity              int    `json:"quantity"`
	Price                 Money  `json:"price"`
	PreOrder              bool   `json:"preorder,omitempty"`
	EstimatedShipmentDate string `json:"estimatedShipmentDate,omitempty"`
}

// OrderRequest is the checkout-creation payload.
type OrderRequest struct {
	Amount            Money    `json:"amount"`
	Mode              string   `json:"mode,omitempty"`
	Consumer          Consumer `json:"consumer"`
	Billing           *Contact `json:"billing,omitempty"`
	Shipping          *Contact `json:"shipping,omitempty"`
	Merchant          Merchant `json:"merchant"`
	Items             []Item   `json:"items"`
	MerchantReference string   `json:"merchantReference"`
}

// Checkout is the provider's response to a checkout creation.
type Checkout struct {
	Token               string `json:"token"`
	Expires             string `json:"expires"`
	RedirectCheckoutURL string `json:"redirectCheckoutUrl"`
}

// Payment status and state values returned by the provider.
const (
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"

	PaymentStateAuthApproved      = "AUTH_APPROVED"
	PaymentStatePartiallyCaptured = "PARTIALLY_CAPTURED"
	PaymentStateCaptured          = "CAPTURED"
	PaymentStateVoided            = "VOIDED"
)

// Payment is the provider-side payment/order record. The numeric order id is
// opaque and only ever echoed back, so it stays a string.
type Payment struct {
	ID             string `json:"id"`
	Token          string `json:"token,omitempty"`
	Status         string `json:"status,omitempty"`
	PaymentState   string `json:"paymentState,omitempty"`
	OpenToCapture  *Money `json:"openToCaptureAmount,omitempty"`
	OriginalAmount *Money `json:"originalAmount,omitempty"`
}

// Refund is the provider's refund acknowledgement.
type Refund struct {
	RefundID          string `json:"refundId"`
	RequestID         string `json:"requestId,omitempty"`
	Amount            *Money `json:"amount,omitempty"`
	MerchantReference string `json:"merchantReference,omitempty"`
}

// CheckoutOrder is the live provider order fetched by token. Used by the
// express flow to read back the consumer and the chosen shipping option.
type CheckoutOrder struct {
	Token                    string   `json:"token"`
	Amount                   Money    `json:"amount"`
	Consumer                 Consumer `json:"consumer"`
	Shipping                 *Contact `json:"shipping,omitempty"`
	Billing                  *Contact `json:"billing,omitempty"`
	ShippingOptionIdentifier string   `json:"shippingOptionIdentifier,omitempty"`
}

// Configuration is the merchant configuration the provider reports:
// order amount limits and their currency.
type Configuration struct {
	MinimumAmount *Money `json:"minimumAmount,omitempty"`
	MaximumAmount *Money `json:"maximumAmount,omitempty"`
}
