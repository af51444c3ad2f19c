package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paylater/internal/models"
	"paylater/internal/payment"
)

// PaymentMethodsRepo lists configured methods for the availability filter.
type PaymentMethodsRepo interface {
	PaymentMethodRepo
	FindActive() ([]models.PaymentMethod, error)
}

// PaymentsRepo loads payments for merchant-side void requests.
type PaymentsRepo interface {
	FindByNumber(number string) (*models.Payment, error)
	UpdateState(payment *models.Payment, state string) error
}

// PaymentMethodsHandler is the extension point the storefront's
// available-payment-methods filter calls: it returns the methods eligible
// for a given order. It also exposes the merchant-side void operation.
type PaymentMethodsHandler struct {
	orders   OrderRepo
	methods  PaymentMethodsRepo
	payments PaymentsRepo
	policy   *payment.Policy
	logger   *zap.Logger
}

func NewPaymentMethodsHandler(orders OrderRepo, methods PaymentMethodsRepo, payments PaymentsRepo, policy *payment.Policy, logger *zap.Logger) *PaymentMethodsHandler {
	return &PaymentMethodsHandler{
		orders:   orders,
		methods:  methods,
		payments: payments,
		policy:   policy,
		logger:   logger,
	}
}

// Available handles GET /payment_methods?order_number=: the configured
// methods filtered by per-order eligibility.
func (h *PaymentMethodsHandler) Available(c echo.Context) error {
	order, err := h.orders.FindByNumber(c.QueryParam("order_number"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}

	methods, err := h.methods.FindActive()
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to load payment methods")
	}

	available := make([]models.PaymentMethod, 0, len(methods))
	for i := range methods {
		if h.policy.AvailableForOrder(c.Request().Context(), &methods[i], order) {
			available = append(available, methods[i])
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"payment_methods": available})
}

// Void handles POST /payments/:number/void: voids an open authorization
// when the payment's source still allows it.
func (h *PaymentMethodsHandler) Void(c echo.Context) error {
	pay, err := h.payments.FindByNumber(c.Param("number"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, noticeResourceNotFound)
	}

	resp, ok := h.policy.TryVoid(c.Request().Context(), pay)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error":     "Transaction can't be voided",
			"errorCode": "void_not_allowed",
		})
	}

	if err := h.payments.UpdateState(pay, models.PaymentStateVoid); err != nil {
		h.logger.Error("failed to record void", zap.String("payment", pay.Number), zap.Error(err))
	}
	return c.JSON(http.StatusOK, resp)
}
