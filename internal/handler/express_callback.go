package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paylater/internal/builder"
	"paylater/internal/service"
)

// ExpressCallbacksHandler serves the provider-hosted express widget:
// address capture with shipping-rate enumeration, and order finalization.
type ExpressCallbacksHandler struct {
	repos             *Repos
	cfg               *Config
	addressUpdater    service.OrderAddressUpdater
	attributesUpdater service.OrderAttributesUpdater
	rateBuilder       service.ShippingRateBuilder
	logger            *zap.Logger
}

func NewExpressCallbacksHandler(
	repos *Repos,
	cfg *Config,
	addressUpdater service.OrderAddressUpdater,
	attributesUpdater service.OrderAttributesUpdater,
	rateBuilder service.ShippingRateBuilder,
	logger *zap.Logger,
) *ExpressCallbacksHandler {
	return &ExpressCallbacksHandler{
		repos:             repos,
		cfg:               cfg,
		addressUpdater:    addressUpdater,
		attributesUpdater: attributesUpdater,
		rateBuilder:       rateBuilder,
		logger:            logger,
	}
}

type expressCreateRequest struct {
	Token           string `json:"token"`
	PaymentMethodID uint   `json:"payment_method_id"`
}

// Create handles POST /express_callbacks/:order_number. It syncs the final
// order attributes from the live provider order and advances the order two
// checkout states. A failed attribute sync reports 500 without advancing.
func (h *ExpressCallbacksHandler) Create(c echo.Context) error {
	order, err := h.repos.Order.FindByNumber(c.Param("order_number"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}
	if !authorizeOrder(c, h.repos.User, order) {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req expressCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	pm, err := h.repos.PaymentMethod.FindActiveByID(req.PaymentMethodID)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}

	if err := h.attributesUpdater.Update(c.Request().Context(), order, req.Token, pm); err != nil {
		h.logger.Error("express order attribute sync failed",
			zap.String("order", order.Number), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":     errUnablePlaceOrder,
			"errorCode": "internal_server_error",
		})
	}

	for i := 0; i < 2; i++ {
		if err := h.repos.Order.UpdateState(order, order.NextState()); err != nil {
			h.logger.Error("failed to advance order state",
				zap.String("order", order.Number), zap.Error(err))
			break
		}
	}

	if h.cfg.UseAPIOrderResponses {
		return c.JSON(http.StatusOK, order)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"redirect_url": h.cfg.checkoutStateURL(order.State),
	})
}

type expressUpdateRequest struct {
	Address service.AddressInput `json:"address"`
}

// Update handles PATCH /express_callbacks/:order_number. It maps the
// widget's address payload onto the order, advances it one state, and
// responds with the shipping options for the widget to present.
func (h *ExpressCallbacksHandler) Update(c echo.Context) error {
	order, err := h.repos.Order.FindByNumber(c.Param("order_number"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}
	if !authorizeOrder(c, h.repos.User, order) {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req expressUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	if err := h.addressUpdater.Update(order, req.Address); err != nil {
		h.logger.Error("express address update failed",
			zap.String("order", order.Number), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"errorCode": "internal_server_error",
		})
	}

	if err := h.repos.Order.UpdateState(order, order.NextState()); err != nil {
		h.logger.Error("failed to advance order state",
			zap.String("order", order.Number), zap.Error(err))
	}

	// The sentinel guest email only exists to let the order advance; it
	// must not survive as the order's real email.
	if order.Email == builder.DefaultGuestEmail {
		if err := h.repos.Order.UpdateEmail(order, ""); err != nil {
			h.logger.Error("failed to clear placeholder email",
				zap.String("order", order.Number), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": h.rateBuilder.Build(order),
	})
}
