package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a cash outflow outside supplier payments, e.g. transport or
// casual labour.
type Expense struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"company_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Input is the expense payload.
type Input struct {
	Category string          `json:"category" validate:"required,min=2,max=120"`
	Amount   decimal.Decimal `json:"amount"`
}
