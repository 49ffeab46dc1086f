package types

import "strings"

// ShippingAddress is the buyer contact snapshot captured at order time.
// It is stored on the order itself so later profile edits never rewrite
// order history.
type ShippingAddress struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Line      string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country" validate:"required"`
	Phone     string `json:"phone"`
}

// FullName joins the name parts for display and receipts.
func (a ShippingAddress) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
