package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds the owner dashboard headline figures. The money totals cover
// the current settlement week; the counts and stock level are point-in-time.
type Totals struct {
	Sales     decimal.Decimal
	Purchases decimal.Decimal
	Expenses  decimal.Decimal
	Products  int
	Suppliers int
	Staff     int
	Stock     decimal.Decimal
}

// DayPoint is one weekday of the weekly chart, Sunday first.
type DayPoint struct {
	Day       string          `json:"day"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Expenses  decimal.Decimal `json:"expenses"`
	Profit    decimal.Decimal `json:"profit"`
}

// MonthPoint is one calendar month of the yearly chart, January first.
type MonthPoint struct {
	Month     string          `json:"month"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Expenses  decimal.Decimal `json:"expenses"`
	Profit    decimal.Decimal `json:"profit"`
}

// Expense is one recent expense line.
type Expense struct {
	ID        int64           `json:"id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Overview is the dashboard response payload.
type Overview struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalProducts  int             `json:"total_products"`
	TotalSuppliers int             `json:"total_suppliers"`
	TotalStaff     int             `json:"total_staff"`
	TotalStock     decimal.Decimal `json:"total_stock"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"`
	RecentExpenses []Expense       `json:"recent_expenses"`
	DailyChart     []DayPoint      `json:"daily_chart"`
	MonthlyChart   []MonthPoint    `json:"monthly_chart"`
}
