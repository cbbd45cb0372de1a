package purchases

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks the payment lifecycle of a purchase.
const (
	StatusNotPaid  = "NotPaid"
	StatusPaid     = "Paid"
	StatusReturned = "Returned"
)

// Purchase is one intake delivery from a supplier. The price is copied from
// the current stock rate at intake time, never trusted from the client.
type Purchase struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	SupplierID     int64           `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	ReturnQuantity decimal.Decimal `json:"return_quantity"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Input is the intake payload. Fractional litres are allowed.
type Input struct {
	ProductName string          `json:"product_name" validate:"required"`
	SupplierID  int64           `json:"supplier_id" validate:"required,gt=0"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ReturnInput is the payload for returning part of a delivery.
type ReturnInput struct {
	Quantity decimal.Decimal `json:"quantity"`
}
