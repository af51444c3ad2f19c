package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paylater/internal/builder"
)

// CheckoutsHandler creates provider checkouts for orders.
type CheckoutsHandler struct {
	repos    *Repos
	gateways GatewayFactory
	cfg      *Config
	logger   *zap.Logger
}

func NewCheckoutsHandler(repos *Repos, gateways GatewayFactory, cfg *Config, logger *zap.Logger) *CheckoutsHandler {
	return &CheckoutsHandler{repos: repos, gateways: gateways, cfg: cfg, logger: logger}
}

type createCheckoutRequest struct {
	OrderNumber        string `json:"order_number"`
	PaymentMethodID    uint   `json:"payment_method_id"`
	RedirectConfirmURL string `json:"redirect_confirm_url"`
	RedirectCancelURL  string `json:"redirect_cancel_url"`
	Mode               string `json:"mode"`
	PopupOriginURL     string `json:"popup_origin_url"`
}

// Create handles POST /checkouts: builds the provider order payload and
// creates the hosted checkout, returning its token, expiry and redirect
// URL.
func (h *CheckoutsHandler) Create(c echo.Context) error {
	var req createCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	order, err := h.repos.Order.FindByNumber(req.OrderNumber)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}
	pm, err := h.repos.PaymentMethod.FindActiveByID(req.PaymentMethodID)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}

	confirmURL := req.RedirectConfirmURL
	if confirmURL == "" {
		confirmURL = h.callbackURL("confirm", req.OrderNumber, req.PaymentMethodID)
	}
	cancelURL := req.RedirectCancelURL
	if cancelURL == "" {
		cancelURL = h.callbackURL("cancel", req.OrderNumber, req.PaymentMethodID)
	}

	payload := (&builder.OrderComponentBuilder{
		Order:              order,
		Mode:               req.Mode,
		RedirectConfirmURL: confirmURL,
		RedirectCancelURL:  cancelURL,
		PopupOriginURL:     req.PopupOriginURL,
		CombinedNames:      h.cfg.CombinedNames,
	}).Build()

	resp := h.gateways(pm).CreateCheckout(c.Request().Context(), payload)
	if !resp.Success {
		h.logger.Info("checkout creation failed",
			zap.String("order", order.Number),
			zap.String("error_code", resp.ErrorCode))
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error":     resp.Message,
			"errorCode": resp.ErrorCode,
		})
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"token":               resp.Checkout.Token,
		"expires":             resp.Checkout.Expires,
		"redirectCheckoutUrl": resp.Checkout.RedirectCheckoutURL,
	})
}

func (h *CheckoutsHandler) callbackURL(action, orderNumber string, paymentMethodID uint) string {
	return fmt.Sprintf("%s/callbacks/%s?order_number=%s&payment_method_id=%d",
		h.cfg.PublicHost, action, orderNumber, paymentMethodID)
}
