package repository

import (
	"gorm.io/gorm"

	"paylater/internal/models"
)

// PaymentMethodRepository handles payment method configuration records.
type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// FindActiveByID returns an active payment method by id.
func (r *PaymentMethodRepository) FindActiveByID(id uint) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.db.Where("id = ? AND active = ?", id, true).First(&pm).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

// FindActive returns all active payment methods.
func (r *PaymentMethodRepository) FindActive() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.Where("active = ?", true).Find(&methods).Error
	return methods, err
}

// Count returns the number of configured methods.
func (r *PaymentMethodRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentMethod{}).Count(&count).Error
	return count, err
}

// Create persists a new payment method.
func (r *PaymentMethodRepository) Create(pm *models.PaymentMethod) error {
	return r.db.Create(pm).Error
}
