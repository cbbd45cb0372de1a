package suppliers

import "time"

// Supplier is a milk farmer delivering to one collection center.
type Supplier struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Input is the create/update payload. Contact is the SMS destination so it
// must be a valid Kenyan mobile number.
type Input struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Contact string `json:"contact" validate:"required"`
	Address string `json:"address" validate:"max=200"`
}
