package salesledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one outgoing sale. The price comes from the current stock selling
// rate at sale time.
type Sale struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	Customer    string          `json:"customer"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	SaleDate    time.Time       `json:"sale_date"`
}

// Input is the sale payload. Customer is the sales channel, e.g. Brookside,
// Local or a named walk-in buyer.
type Input struct {
	Customer    string          `json:"customer" validate:"required,min=2,max=120"`
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}
