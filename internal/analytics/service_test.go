package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coffeebase/coffeebase-api/internal/order"
)

type stubOrders struct {
	orders    []order.Order
	lastStart time.Time
	lastEnd   time.Time
}

func (s *stubOrders) ListByDateRange(ctx context.Context, start, end time.Time) ([]order.Order, error) {
	s.lastStart, s.lastEnd = start, end
	var out []order.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(day string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", day)
	if err != nil {
		panic(err)
	}
	return t
}

func threeOrders() []order.Order {
	return []order.Order{
		{ID: "o-1", Total: d("10"), CreatedAt: at("2026-03-02T09:00:00Z"), Items: []order.Item{
			{ProductID: "p-1", Name: "Espresso", Price: d("5"), Quantity: 2},
		}},
		{ID: "o-2", Total: d("20"), CreatedAt: at("2026-03-02T15:00:00Z"), Items: []order.Item{
			{ProductID: "p-2", Name: "Latte", Price: d("10"), Quantity: 2},
		}},
		{ID: "o-3", Total: d("30"), CreatedAt: at("2026-03-03T11:00:00Z"), Items: []order.Item{
			{ProductID: "p-1", Name: "Espresso", Price: d("5"), Quantity: 6},
		}},
	}
}

func fixedWindow() (start, end *time.Time) {
	s, e := at("2026-03-01T00:00:00Z"), at("2026-03-04T00:00:00Z")
	return &s, &e
}

func TestStatistics_RevenueAndAverage(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubOrders{orders: threeOrders()})
	start, end := fixedWindow()
	out, err := svc.Statistics(context.Background(), PeriodDay, start, end)
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if !out.Revenue.Total.Equal(d("60")) {
		t.Fatalf("total=%s, expected 60", out.Revenue.Total)
	}
	if out.OrderCount != 3 {
		t.Fatalf("orderCount=%d, expected 3", out.OrderCount)
	}
	if !out.AverageOrderValue.Equal(d("20")) {
		t.Fatalf("averageOrderValue=%s, expected 20", out.AverageOrderValue)
	}
}

func TestStatistics_DailyBreakdown(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubOrders{orders: threeOrders()})
	start, end := fixedWindow()
	out, err := svc.Statistics(context.Background(), PeriodDay, start, end)
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if got := out.Revenue.DailyBreakdown["2026-03-02"]; !got.Equal(d("30")) {
		t.Fatalf("2026-03-02=%s, expected 30", got)
	}
	if got := out.Revenue.DailyBreakdown["2026-03-03"]; !got.Equal(d("30")) {
		t.Fatalf("2026-03-03=%s, expected 30", got)
	}
}

func TestStatistics_EmptyWindow(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubOrders{})
	start, end := fixedWindow()
	out, err := svc.Statistics(context.Background(), PeriodDay, start, end)
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if !out.Revenue.Total.IsZero() || out.OrderCount != 0 {
		t.Fatalf("empty window: %+v", out)
	}
	// Division guard: average is total / max(count, 1).
	if !out.AverageOrderValue.IsZero() {
		t.Fatalf("averageOrderValue=%s, expected 0", out.AverageOrderValue)
	}
}

func TestTopProducts_ByQuantityWithStableTies(t *testing.T) {
	t.Parallel()

	orders := threeOrders()
	// p-3 ties p-2 at quantity two but is seen later, so p-2 stays ahead.
	orders = append(orders, order.Order{ID: "o-4", Total: d("8"), CreatedAt: at("2026-03-03T12:00:00Z"), Items: []order.Item{
		{ProductID: "p-3", Name: "Mocha", Price: d("4"), Quantity: 2},
	}})
	src := &stubOrders{orders: orders}
	svc := NewService(src)
	svc.now = func() time.Time { return at("2026-03-04T00:00:00Z") }

	top, err := svc.TopProducts(context.Background(), PeriodWeek, 10)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("len=%d, expected 3", len(top))
	}
	if top[0].ProductID != "p-1" || top[0].Quantity != 8 {
		t.Fatalf("top[0]=%+v", top[0])
	}
	if top[1].ProductID != "p-2" || top[2].ProductID != "p-3" {
		t.Fatalf("tie order broken: %+v / %+v", top[1], top[2])
	}
	if !top[0].Revenue.Equal(d("40")) {
		t.Fatalf("p-1 revenue=%s, expected 40", top[0].Revenue)
	}
}

func TestTopProducts_LimitApplied(t *testing.T) {
	t.Parallel()

	src := &stubOrders{orders: threeOrders()}
	svc := NewService(src)
	svc.now = func() time.Time { return at("2026-03-04T00:00:00Z") }

	top, err := svc.TopProducts(context.Background(), PeriodWeek, 1)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(top) != 1 || top[0].ProductID != "p-1" {
		t.Fatalf("top=%+v", top)
	}
}

func TestDateRange_Derivation(t *testing.T) {
	t.Parallel()

	src := &stubOrders{}
	svc := NewService(src)
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Revenue(context.Background(), PeriodDay, nil, nil); err != nil {
		t.Fatalf("revenue failed: %v", err)
	}
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); !src.lastStart.Equal(want) {
		t.Fatalf("day start=%v, want midnight today", src.lastStart)
	}

	if _, err := svc.Revenue(context.Background(), PeriodWeek, nil, nil); err != nil {
		t.Fatalf("revenue failed: %v", err)
	}
	if want := now.AddDate(0, 0, -7); !src.lastStart.Equal(want) {
		t.Fatalf("week start=%v, want %v", src.lastStart, want)
	}

	// Calendar month subtraction, not a fixed 30 days.
	if _, err := svc.Revenue(context.Background(), PeriodMonth, nil, nil); err != nil {
		t.Fatalf("revenue failed: %v", err)
	}
	if want := time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC); !src.lastStart.Equal(want) {
		t.Fatalf("month start=%v, want %v", src.lastStart, want)
	}
}
