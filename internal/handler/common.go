package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"paylater/internal/afterpay"
	"paylater/internal/gateway"
	"paylater/internal/models"
)

// Texts surfaced to shoppers on business-rule failures.
const (
	noticeResourceNotFound      = "Resource not found"
	noticeOrderTokenNotFound    = "Order token not found"
	noticeOrderAlreadyCompleted = "Order already completed"
	errUnablePlaceOrder         = "Unable to place the order"
)

// Config carries the handler-level settings: where the storefront lives,
// where this service is reachable for computed callback URLs, and response
// style switches.
type Config struct {
	// FrontendHost is the storefront base URL redirects point at.
	FrontendHost string
	// PublicHost is this service's public base URL, used to compute the
	// default confirm/cancel callback URLs.
	PublicHost string
	// CombinedNames mirrors the store's address name handling.
	CombinedNames bool
	// UseAPIOrderResponses switches the express create response from a
	// redirect-url body to the full order body.
	UseAPIOrderResponses bool
}

// OrderRepo is the order persistence surface handlers use.
type OrderRepo interface {
	FindByNumber(number string) (*models.Order, error)
	UpdateState(order *models.Order, state string) error
	UpdateEmail(order *models.Order, email string) error
}

// PaymentRepo attaches payments to orders.
type PaymentRepo interface {
	CreateWithSource(order *models.Order, pm *models.PaymentMethod, amount float64, token string) (*models.Payment, error)
}

// PaymentMethodRepo loads payment method configuration.
type PaymentMethodRepo interface {
	FindActiveByID(id uint) (*models.PaymentMethod, error)
}

// UserRepo resolves API keys to customers.
type UserRepo interface {
	FindByAPIKey(apiKey string) (*models.User, error)
}

// Repos bundles the persistence surfaces the handlers use.
type Repos struct {
	Order         OrderRepo
	Payment       PaymentRepo
	PaymentMethod PaymentMethodRepo
	User          UserRepo
}

// CheckoutGateway is the gateway surface the checkout handler drives.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, order *afterpay.OrderRequest) *gateway.Response
}

// GatewayFactory returns the gateway for a payment method's merchant
// account. Configured once at process start.
type GatewayFactory func(pm *models.PaymentMethod) CheckoutGateway

func (cfg *Config) checkoutStateURL(state string) string {
	return strings.TrimRight(cfg.FrontendHost, "/") + "/checkout/" + state
}

func (cfg *Config) orderURL(number string) string {
	return strings.TrimRight(cfg.FrontendHost, "/") + "/orders/" + number
}

func (cfg *Config) cartURL() string {
	return strings.TrimRight(cfg.FrontendHost, "/") + "/cart"
}

// wantsJSON reports whether the client asked for a JSON response instead of
// a browser redirect.
func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON)
}

// redirectOrJSON sends an HTML redirect for browser flows and a JSON body
// carrying the redirect URL for API flows. The notice travels as a query
// parameter so the storefront can flash it.
func redirectOrJSON(c echo.Context, url, notice string) error {
	target := url
	if notice != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		target = url + sep + "notice=" + strings.ReplaceAll(notice, " ", "+")
	}

	if wantsJSON(c) {
		body := map[string]string{"redirect_url": url}
		if notice != "" {
			body["notice"] = notice
		}
		return c.JSON(http.StatusOK, body)
	}
	return c.Redirect(http.StatusFound, target)
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// authorizeOrder checks that the caller owns the order: either the guest
// token header matches, or a bearer API key resolves to the order's user.
func authorizeOrder(c echo.Context, users UserRepo, order *models.Order) bool {
	if token := c.Request().Header.Get("X-Order-Token"); token != "" && token == order.GuestToken {
		return true
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") && users != nil {
		user, err := users.FindByAPIKey(strings.TrimPrefix(auth, "Bearer "))
		if err == nil && order.UserID != nil && user.ID == *order.UserID {
			return true
		}
	}
	return false
}
