package service

import (
	"errors"

	"paylater/internal/models"
)

// fakeOrderStore records mutations instead of hitting a database.
type fakeOrderStore struct {
	saved        *models.Order
	saveErr      error
	stateUpdates []string
	emailUpdates []string

	rates         map[uint]*models.ShippingRate
	selectedRates []uint
}

func (f *fakeOrderStore) Save(order *models.Order) error {
	f.saved = order
	return f.saveErr
}

func (f *fakeOrderStore) UpdateState(order *models.Order, state string) error {
	order.State = state
	f.stateUpdates = append(f.stateUpdates, state)
	return nil
}

func (f *fakeOrderStore) UpdateEmail(order *models.Order, email string) error {
	order.Email = email
	f.emailUpdates = append(f.emailUpdates, email)
	return nil
}

func (f *fakeOrderStore) SelectShippingRate(shipmentID, rateID uint) error {
	f.selectedRates = append(f.selectedRates, rateID)
	return nil
}

func (f *fakeOrderStore) FindShippingRate(rateID uint) (*models.ShippingRate, error) {
	rate, ok := f.rates[rateID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return rate, nil
}

type fakePaymentStore struct {
	order  *models.Order
	method *models.PaymentMethod
	amount float64
	token  string
	err    error
}

func (f *fakePaymentStore) CreateWithSource(order *models.Order, pm *models.PaymentMethod, amount float64, token string) (*models.Payment, error) {
	f.order = order
	f.method = pm
	f.amount = amount
	f.token = token
	if f.err != nil {
		return nil, f.err
	}
	return &models.Payment{Amount: amount, State: models.PaymentStateCheckout}, nil
}
