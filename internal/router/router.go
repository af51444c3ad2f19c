package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paylater/internal/afterpay"
	"paylater/internal/cache"
	"paylater/internal/config"
	"paylater/internal/gateway"
	"paylater/internal/handler"
	"paylater/internal/middleware"
	"paylater/internal/models"
	"paylater/internal/payment"
	"paylater/internal/repository"
	"paylater/internal/service"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	configCache *cache.ConfigCache,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	userRepo := repository.NewUserRepository(db)

	// One gateway per merchant account; payment methods carry the
	// credentials.
	gatewayFor := func(pm *models.PaymentMethod) *gateway.Gateway {
		return gateway.New(afterpay.Config{
			MerchantID: pm.MerchantID,
			SecretKey:  pm.SecretKey,
			TestMode:   pm.TestMode,
			UserAgent:  afterpay.NewUserAgentGenerator(pm.MerchantID, cfg.Store.URL).Generate(),
		}, logger)
	}

	policy := payment.NewPolicy(func(pm *models.PaymentMethod) payment.Gateway {
		return gatewayFor(pm)
	}, configCache, logger)

	// Express services, injected as strategies
	addressUpdater := service.NewUpdateOrderAddressesService(orderRepo)
	attributesUpdater := service.NewUpdateOrderAttributesService(
		func(pm *models.PaymentMethod) service.ProviderOrderFinder {
			return gatewayFor(pm)
		},
		orderRepo,
		paymentRepo,
	)
	rateBuilder := service.NewShippingRateBuilderService()

	handlerCfg := &handler.Config{
		FrontendHost:         cfg.Store.FrontendHost,
		PublicHost:           cfg.Store.PublicHost,
		CombinedNames:        cfg.Store.CombinedNames,
		UseAPIOrderResponses: cfg.Store.UseAPIOrderResponses,
	}
	repos := &handler.Repos{
		Order:         orderRepo,
		Payment:       paymentRepo,
		PaymentMethod: methodRepo,
		User:          userRepo,
	}

	checkoutsHandler := handler.NewCheckoutsHandler(repos, func(pm *models.PaymentMethod) handler.CheckoutGateway {
		return gatewayFor(pm)
	}, handlerCfg, logger)
	callbacksHandler := handler.NewCallbacksHandler(repos, handlerCfg, logger)
	expressHandler := handler.NewExpressCallbacksHandler(repos, handlerCfg, addressUpdater, attributesUpdater, rateBuilder, logger)
	methodsHandler := handler.NewPaymentMethodsHandler(orderRepo, methodRepo, paymentRepo, policy, logger)

	// Checkout creation
	e.POST("/checkouts", checkoutsHandler.Create)

	// Provider redirect callbacks (browser flow)
	e.GET("/callbacks/confirm", callbacksHandler.Confirm)
	e.POST("/callbacks/confirm", callbacksHandler.Confirm)
	e.GET("/callbacks/cancel", callbacksHandler.Cancel)

	// Express widget callbacks
	e.POST("/express_callbacks/:order_number", expressHandler.Create)
	e.PATCH("/express_callbacks/:order_number", expressHandler.Update)

	// Storefront extension points
	e.GET("/payment_methods", methodsHandler.Available)
	e.POST("/payments/:number/void", methodsHandler.Void)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
