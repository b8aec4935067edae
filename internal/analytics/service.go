// Package analytics aggregates orders over a date range into revenue and
// top-product reports. Everything is computed by scanning the window: the
// reports are admin-only and read rarely, so there are no incremental
// counters to keep consistent.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/order"
)

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// OrdersSource is the read-only slice of the order store this component
// consumes.
type OrdersSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]order.Order, error)
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Revenue struct {
	Total decimal.Decimal `json:"total"`
	// DailyBreakdown maps ISO dates (UTC) to that day's revenue.
	DailyBreakdown map[string]decimal.Decimal `json:"dailyBreakdown"`
}

type TopProduct struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Statistics is the full report returned by GET /api/analytics/statistics.
// swagger:model
type Statistics struct {
	Period            string          `json:"period"`
	DateRange         DateRange       `json:"dateRange"`
	Revenue           Revenue         `json:"revenue"`
	OrderCount        int             `json:"orderCount"`
	TopProducts       []TopProduct    `json:"topProducts"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type Service struct {
	orders OrdersSource
	now    func() time.Time
}

func NewService(orders OrdersSource) *Service {
	return &Service{orders: orders, now: time.Now}
}

func (s *Service) Statistics(ctx context.Context, period string, start, end *time.Time) (*Statistics, error) {
	dr := s.dateRange(period, start, end)
	orders, err := s.window(ctx, dr)
	if err != nil {
		return nil, err
	}

	revenue := revenueOf(orders)
	count := len(orders)

	divisor := count
	if divisor == 0 {
		divisor = 1
	}
	return &Statistics{
		Period:            period,
		DateRange:         dr,
		Revenue:           revenue,
		OrderCount:        count,
		TopProducts:       topProductsOf(orders, 5),
		AverageOrderValue: revenue.Total.Div(decimal.NewFromInt(int64(divisor))),
	}, nil
}

func (s *Service) Revenue(ctx context.Context, period string, start, end *time.Time) (*Revenue, error) {
	orders, err := s.window(ctx, s.dateRange(period, start, end))
	if err != nil {
		return nil, err
	}
	r := revenueOf(orders)
	return &r, nil
}

func (s *Service) TopProducts(ctx context.Context, period string, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	orders, err := s.window(ctx, s.dateRange(period, nil, nil))
	if err != nil {
		return nil, err
	}
	return topProductsOf(orders, limit), nil
}

func (s *Service) window(ctx context.Context, dr DateRange) ([]order.Order, error) {
	orders, err := s.orders.ListByDateRange(ctx, dr.Start, dr.End)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "could not load orders", err)
	}
	return orders, nil
}

// dateRange uses explicit bounds verbatim when both are given; otherwise the
// window ends now and starts at the period boundary. Months subtract a
// calendar month, not 30 days.
func (s *Service) dateRange(period string, start, end *time.Time) DateRange {
	if start != nil && end != nil {
		return DateRange{Start: *start, End: *end}
	}
	now := s.now()
	var from time.Time
	switch period {
	case PeriodWeek:
		from = now.AddDate(0, 0, -7)
	case PeriodMonth:
		from = now.AddDate(0, -1, 0)
	default: // day
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return DateRange{Start: from, End: now}
}

func revenueOf(orders []order.Order) Revenue {
	total := decimal.Zero
	daily := make(map[string]decimal.Decimal)
	for _, o := range orders {
		total = total.Add(o.Total)
		day := o.CreatedAt.UTC().Format("2006-01-02")
		daily[day] = daily[day].Add(o.Total)
	}
	return Revenue{Total: total, DailyBreakdown: daily}
}

// topProductsOf aggregates item quantities per product. First-seen order is
// preserved through the stable sort, so ties keep insertion order.
func topProductsOf(orders []order.Order, limit int) []TopProduct {
	byProduct := make(map[string]*TopProduct)
	var seen []string
	for _, o := range orders {
		for _, it := range o.Items {
			tp, ok := byProduct[it.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				byProduct[it.ProductID] = tp
				seen = append(seen, it.ProductID)
			}
			tp.Quantity += it.Quantity
			tp.Revenue = tp.Revenue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]TopProduct, 0, len(seen))
	for _, id := range seen {
		out = append(out, *byProduct[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
