package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"paylater/internal/models"
)

// PaymentRepository handles payment and payment-source database operations.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateWithSource attaches a payment to the order, creating the token
// source record in the same transaction.
func (r *PaymentRepository) CreateWithSource(order *models.Order, pm *models.PaymentMethod, amount float64, token string) (*models.Payment, error) {
	payment := &models.Payment{
		Number:          uuid.NewString(),
		OrderID:         order.ID,
		PaymentMethodID: pm.ID,
		Amount:          amount,
		Currency:        order.Currency,
		State:           models.PaymentStateCheckout,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		source := &models.PaymentSource{
			Token:           token,
			PaymentMethodID: pm.ID,
		}
		if err := tx.Create(source).Error; err != nil {
			return err
		}
		payment.SourceID = source.ID
		payment.Source = source
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// FindByNumber returns a payment with its method and source loaded.
func (r *PaymentRepository) FindByNumber(number string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.
		Preload("PaymentMethod").
		Preload("Source").
		Where("number = ?", number).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateState transitions a payment's local state.
func (r *PaymentRepository) UpdateState(payment *models.Payment, state string) error {
	payment.State = state
	return r.db.Model(&models.Payment{}).Where("id = ?", payment.ID).Update("state", state).Error
}

// SetResponseCode records the provider payment id from authorization.
func (r *PaymentRepository) SetResponseCode(payment *models.Payment, code string) error {
	payment.ResponseCode = code
	return r.db.Model(&models.Payment{}).Where("id = ?", payment.ID).Update("response_code", code).Error
}
