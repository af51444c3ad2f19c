package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paylater/internal/models"
)

// CallbacksHandler advances orders when the provider redirects the shopper
// back after the hosted checkout.
type CallbacksHandler struct {
	repos  *Repos
	cfg    *Config
	logger *zap.Logger
}

func NewCallbacksHandler(repos *Repos, cfg *Config, logger *zap.Logger) *CallbacksHandler {
	return &CallbacksHandler{repos: repos, cfg: cfg, logger: logger}
}

// Confirm handles the provider's confirm redirect: it attaches the payment
// (method, order total, checkout token) to the order and advances it one
// checkout state. Guarded by the presence of the order token and by the
// order not being complete; both failures redirect without a state change.
func (h *CallbacksHandler) Confirm(c echo.Context) error {
	order, err := h.repos.Order.FindByNumber(c.QueryParam("order_number"))
	if err != nil {
		return redirectOrJSON(c, h.cfg.cartURL(), noticeResourceNotFound)
	}

	orderToken := c.QueryParam("orderToken")
	if orderToken == "" {
		return redirectOrJSON(c, h.cfg.checkoutStateURL(order.State), noticeOrderTokenNotFound)
	}

	if order.IsComplete() {
		return redirectOrJSON(c, h.cfg.orderURL(order.Number), noticeOrderAlreadyCompleted)
	}

	pm, err := h.findPaymentMethod(c.QueryParam("payment_method_id"))
	if err != nil {
		return redirectOrJSON(c, h.cfg.cartURL(), noticeResourceNotFound)
	}

	if _, err := h.repos.Payment.CreateWithSource(order, pm, order.Total, orderToken); err != nil {
		h.logger.Error("failed to attach payment on confirm",
			zap.String("order", order.Number), zap.Error(err))
		return redirectOrJSON(c, h.cfg.checkoutStateURL(order.State), "")
	}

	if err := h.repos.Order.UpdateState(order, order.NextState()); err != nil {
		h.logger.Error("failed to advance order state",
			zap.String("order", order.Number), zap.Error(err))
	}

	return redirectOrJSON(c, h.cfg.checkoutStateURL(order.State), "")
}

// Cancel handles the provider's cancel redirect: no state change, the
// shopper lands back on their current checkout step.
func (h *CallbacksHandler) Cancel(c echo.Context) error {
	order, err := h.repos.Order.FindByNumber(c.QueryParam("order_number"))
	if err != nil {
		return redirectOrJSON(c, h.cfg.cartURL(), noticeResourceNotFound)
	}
	return redirectOrJSON(c, h.cfg.checkoutStateURL(order.State), "")
}

func (h *CallbacksHandler) findPaymentMethod(raw string) (*models.PaymentMethod, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	return h.repos.PaymentMethod.FindActiveByID(uint(id))
}
