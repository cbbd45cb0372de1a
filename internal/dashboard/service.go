package dashboard

import (
	"context"
	"time"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

const recentExpenseLimit = 5

// Service assembles the owner dashboard.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs the service. now is optional and exists for tests.
func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// Overview builds the dashboard for one company: headline totals over the
// current settlement week, a Sunday..Saturday chart series and a Jan..Dec
// series, both zero-filled so quiet buckets render as flat lines rather than
// gaps.
func (s *Service) Overview(ctx context.Context, companyID int64) (*Overview, error) {
	now := s.now()
	week := shared.WeekOf(now)

	totals, err := s.repo.Totals(ctx, companyID, week.Start(), week.End())
	if err != nil {
		return nil, err
	}
	daySales, dayPurchases, dayExpenses, err := s.repo.DailySeries(ctx, companyID, week.Start(), week.End())
	if err != nil {
		return nil, err
	}
	monthSales, monthPurchases, monthExpenses, err := s.repo.MonthlySeries(ctx, companyID, now.Year())
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentExpenses(ctx, companyID, recentExpenseLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []Expense{}
	}

	overview := &Overview{
		TotalSales:     totals.Sales,
		TotalPurchases: totals.Purchases,
		TotalExpenses:  totals.Expenses,
		TotalProducts:  totals.Products,
		TotalSuppliers: totals.Suppliers,
		TotalStaff:     totals.Staff,
		TotalStock:     totals.Stock,
		ProfitLoss:     totals.Sales.Sub(totals.Purchases.Add(totals.Expenses)),
		RecentExpenses: recent,
	}

	for d := shared.Sunday; d <= shared.Saturday; d++ {
		point := DayPoint{
			Day:       d.String(),
			Sales:     daySales[int(d)],
			Purchases: dayPurchases[int(d)],
			Expenses:  dayExpenses[int(d)],
		}
		point.Profit = point.Sales.Sub(point.Purchases.Add(point.Expenses))
		overview.DailyChart = append(overview.DailyChart, point)
	}

	for m := time.January; m <= time.December; m++ {
		point := MonthPoint{
			Month:     m.String()[:3],
			Sales:     monthSales[int(m)],
			Purchases: monthPurchases[int(m)],
			Expenses:  monthExpenses[int(m)],
		}
		point.Profit = point.Sales.Sub(point.Purchases.Add(point.Expenses))
		overview.MonthlyChart = append(overview.MonthlyChart, point)
	}

	return overview, nil
}
