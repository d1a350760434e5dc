package service

import "gizmohub_back_end/internal/models"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanActFor reports whether the caller may read or change the given customer's data.
func (a Actor) CanActFor(customerID uint) bool {
	return a.IsAdmin() || (a.Role == models.RoleCustomer && a.ID == customerID)
}
