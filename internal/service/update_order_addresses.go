package service

import (
	"strings"

	"paylater/internal/builder"
	"paylater/internal/models"
)

// UpdateOrderAddressesService copies the express widget's address payload
// onto the order's billing and shipping address and forces the order back
// to the address step. Orders without an email yet get the sentinel guest
// email so the order can advance.
type UpdateOrderAddressesService struct {
	Orders OrderStore
}

func NewUpdateOrderAddressesService(orders OrderStore) *UpdateOrderAddressesService {
	return &UpdateOrderAddressesService{Orders: orders}
}

func (s *UpdateOrderAddressesService) Update(order *models.Order, addr AddressInput) error {
	order.State = models.OrderStateAddress
	if order.Email == "" {
		order.Email = builder.DefaultGuestEmail
	}

	billing := addressRecord(addr)
	shipping := addressRecord(addr)

	if order.BillAddress != nil {
		billing.ID = order.BillAddress.ID
	}
	if order.ShipAddress != nil {
		shipping.ID = order.ShipAddress.ID
	}
	order.BillAddress = billing
	order.ShipAddress = shipping

	return s.Orders.Save(order)
}

func addressRecord(addr AddressInput) *models.Address {
	first, last := splitAddressName(addr.Name)
	return &models.Address{
		Name:        addr.Name,
		FirstName:   first,
		LastName:    last,
		Address1:    addr.Address1,
		Address2:    addr.Address2,
		City:        addr.Suburb,
		StateCode:   addr.State,
		CountryCode: addr.CountryCode,
		Zipcode:     addr.PostCode,
		Phone:       addr.PhoneNumber,
	}
}

func splitAddressName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
