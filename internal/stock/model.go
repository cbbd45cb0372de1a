package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one stock/pricing entry. The most recently added row for a product
// carries the current buying rate used by the weekly settlement.
type Row struct {
	ID            int64           `json:"id"`
	CompanyID     int64           `json:"company_id"`
	ProductName   string          `json:"product_name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	AddedAt       time.Time       `json:"added_at"`
}

// Input is the create/update payload.
type Input struct {
	ProductName   string          `json:"product_name" validate:"required,min=2,max=120"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      decimal.Decimal `json:"quantity"`
}
