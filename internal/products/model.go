package products

// Product is a named item the center trades in, e.g. Milk or Mursik.
type Product struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
}

// Input is the create/update payload.
type Input struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}
