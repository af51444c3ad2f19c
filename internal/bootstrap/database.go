package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"paylater/internal/config"
	"paylater/internal/models"
)

// MigrateAndSeed creates the schema and, when no payment method exists yet,
// seeds one from the environment so a fresh install can take checkouts.
func MigrateAndSeed(db *gorm.DB, cfg *config.Config) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Variant{},
		&models.Order{},
		&models.LineItem{},
		&models.Shipment{},
		&models.ShippingRate{},
		&models.PaymentMethod{},
		&models.PaymentSource{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	var count int64
	if err := db.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || cfg.Afterpay.MerchantID == "" {
		return nil
	}

	seed := &models.PaymentMethod{
		Name:        "Afterpay",
		Active:      true,
		MerchantID:  cfg.Afterpay.MerchantID,
		SecretKey:   cfg.Afterpay.SecretKey,
		TestMode:    cfg.Afterpay.TestMode,
		AutoCapture: cfg.Afterpay.AutoCapture,
	}
	return db.Create(seed).Error
}
