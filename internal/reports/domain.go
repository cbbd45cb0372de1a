package reports

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type enumerates the supported back-office reports.
type Type string

const (
	TypeSales       Type = "sales"
	TypeStock       Type = "stock"
	TypePurchases   Type = "purchases"
	TypeSuppliers   Type = "suppliers"
	TypeProducts    Type = "products"
	TypeExpenses    Type = "expenses"
	TypeUsers       Type = "users"
	TypeDailyReport Type = "daily-report"
)

// TimeFilter narrows a report to a rolling calendar window. The empty filter
// means all time.
type TimeFilter string

const (
	FilterNone  TimeFilter = ""
	FilterDay   TimeFilter = "day"
	FilterWeek  TimeFilter = "week"
	FilterMonth TimeFilter = "month"
	FilterYear  TimeFilter = "year"
)

// Format selects the response encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

var (
	ErrUnknownType   = errors.New("reports: unknown report type")
	ErrUnknownFilter = errors.New("reports: unknown time filter")
	ErrUnknownFormat = errors.New("reports: unknown format")
)

// ParseType validates a report type from a request path segment.
func ParseType(v string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(v)))
	switch t {
	case TypeSales, TypeStock, TypePurchases, TypeSuppliers,
		TypeProducts, TypeExpenses, TypeUsers, TypeDailyReport:
		return t, nil
	default:
		return "", ErrUnknownType
	}
}

// ParseTimeFilter validates a filter from a query parameter. Only members of
// the closed set ever reach a query; user input is never spliced into SQL.
func ParseTimeFilter(v string) (TimeFilter, error) {
	f := TimeFilter(strings.ToLower(strings.TrimSpace(v)))
	switch f {
	case FilterNone, FilterDay, FilterWeek, FilterMonth, FilterYear:
		return f, nil
	default:
		return "", ErrUnknownFilter
	}
}

// ParseFormat validates the output format. JSON is the default.
func ParseFormat(v string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(v)))
	switch f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatExcel, FormatPDF:
		return f, nil
	default:
		return "", ErrUnknownFormat
	}
}

// SummaryItem is one labelled aggregate shown under the report table.
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is the fully built view model, shared by the JSON, Excel and PDF
// encoders and cached as a unit.
type Report struct {
	Type        Type          `json:"type"`
	Title       string        `json:"title"`
	CompanyName string        `json:"company_name"`
	Filter      TimeFilter    `json:"filter,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
	Headers     []string      `json:"headers"`
	Rows        [][]string    `json:"rows"`
	Summary     []SummaryItem `json:"summary"`
}

// Filename returns the attachment base name for downloads.
func (r *Report) Filename() string {
	return strings.ReplaceAll(strings.ToLower(r.Title), " ", "_")
}

// Row types returned by the repository, one per report.

type StockRow struct {
	ID            int64
	Product       string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

type SalesRow struct {
	ID         int64
	Customer   string
	Product    string
	Quantity   decimal.Decimal
	TotalPrice decimal.Decimal
	SaleDate   time.Time
}

type PurchaseRow struct {
	ID             int64
	Product        string
	Quantity       decimal.Decimal
	PurchasePrice  decimal.Decimal
	Total          decimal.Decimal
	Status         string
	ReturnQuantity decimal.Decimal
}

// SupplierWeekRow carries the per-weekday intake matrix for one supplier.
// Daily is 1-indexed by shared.Weekday (Sunday=1 .. Saturday=7).
type SupplierWeekRow struct {
	ID          int64
	Name        string
	Contact     string
	Category    string
	Daily       [8]decimal.Decimal
	Total       decimal.Decimal
	Rate        decimal.Decimal
	TotalAmount decimal.Decimal
}

type ProductRow struct {
	ID   int64
	Name string
}

type ExpenseRow struct {
	ID        int64
	Category  string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

type UserRow struct {
	ID       int64
	Username string
	Role     string
}

// DailyLine is one row of the daily composite report. Quantity and Total are
// nil where the source line has no meaningful value for that column.
type DailyLine struct {
	Kind     string
	Quantity *decimal.Decimal
	Customer string
	Total    *decimal.Decimal
}
