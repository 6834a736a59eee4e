package entities

import "strings"

// Customer is one contact at a company. Number is shared by every contact of
// the same company.
type Customer struct {
	Number       int    `json:"number"`
	Company      string `json:"company" validate:"required"`
	Department   string `json:"department"`
	Contact      string `json:"contact" validate:"required"`
	PostalCode   string `json:"postal_code"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	Address      string `json:"address"`
	RegisteredAt Date   `json:"registered_at"`
	UpdatedAt    Date   `json:"updated_at"`
}

// CustomerKey is the uniqueness tuple of a Customer.
type CustomerKey struct {
	Company    string
	Department string
	Contact    string
}

func (c Customer) Key() CustomerKey {
	return CustomerKey{Company: c.Company, Department: c.Department, Contact: c.Contact}
}

// HasStructuredAddress reports whether any of the split address fields is set.
func (c Customer) HasStructuredAddress() bool {
	return c.PostalCode != "" || c.Address1 != "" || c.Address2 != ""
}

func (c Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		Company:    c.Company,
		Department: c.Department,
		Contact:    c.Contact,
		PostalCode: c.PostalCode,
		Address1:   c.Address1,
		Address2:   c.Address2,
		Address:    c.Address,
	}
}

// ComposeAddress builds the legacy single-line address.
func ComposeAddress(postalCode, address1, address2 string) string {
	return strings.TrimSpace(strings.Join([]string{postalCode, address1, address2}, " "))
}
