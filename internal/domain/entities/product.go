package entities

// Product is a catalog item. Name is unique; UnitPrice may be negative for
// discount rows.
type Product struct {
	Name         string  `json:"name" validate:"required"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unit_price"`
	Note         string  `json:"note"`
	RegisteredAt Date    `json:"registered_at"`
	UpdatedAt    Date    `json:"updated_at"`
}
