package repository

import (
	"gorm.io/gorm"

	"paylater/internal/models"
)

// OrderRepository handles order database operations.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByNumber returns an order with its checkout associations loaded.
func (r *OrderRepository) FindByNumber(number string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("User").
		Preload("BillAddress").
		Preload("ShipAddress").
		Preload("LineItems.Variant.Product").
		Preload("Shipments.ShippingRates").
		Preload("Payments").
		Where("number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save persists the order and its dirty associations.
func (r *OrderRepository) Save(order *models.Order) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// UpdateState moves the order to the given checkout state.
func (r *OrderRepository) UpdateState(order *models.Order, state string) error {
	order.State = state
	return r.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("state", state).Error
}

// UpdateEmail sets (or clears) the order email without touching validations.
func (r *OrderRepository) UpdateEmail(order *models.Order, email string) error {
	order.Email = email
	return r.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("email", email).Error
}

// SelectShippingRate marks one rate selected and deselects its siblings.
func (r *OrderRepository) SelectShippingRate(shipmentID, rateID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ShippingRate{}).
			Where("shipment_id = ?", shipmentID).
			Update("selected", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.ShippingRate{}).
			Where("id = ?", rateID).
			Update("selected", true).Error
	})
}

// FindShippingRate returns a shipping rate by id.
func (r *OrderRepository) FindShippingRate(rateID uint) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	if err := r.db.Where("id = ?", rateID).First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}
