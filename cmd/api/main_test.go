package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coffeebase/coffeebase-api/internal/analytics"
	"github.com/coffeebase/coffeebase-api/internal/auth"
	"github.com/coffeebase/coffeebase-api/internal/config"
	"github.com/coffeebase/coffeebase-api/internal/order"
	"github.com/coffeebase/coffeebase-api/internal/payment"
	"github.com/coffeebase/coffeebase-api/internal/product"
	"github.com/coffeebase/coffeebase-api/internal/review"
	"github.com/coffeebase/coffeebase-api/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

type fixture struct {
	router   *gin.Engine
	tokens   *auth.Tokens
	users    *memUsers
	products *memProducts
	orders   *memOrders
	reviews  *memReviews
}

func newFixture() *fixture {
	tokens := auth.NewTokens("test-secret", time.Hour)
	users := &memUsers{byID: map[string]*user.User{}}
	products := &memProducts{byID: map[string]*product.Product{}}
	orders := &memOrders{byID: map[string]*order.Order{}}
	reviews := &memReviews{users: users}

	app := &App{
		Cfg:       config.Config{CORSOrigins: []string{"http://localhost:5173"}},
		Tokens:    tokens,
		Users:     user.NewService(users, tokens),
		Products:  products,
		Orders:    order.NewService(orders, payment.NewGateway(config.Payments{}, users)),
		Reviews:   review.NewService(reviews, orders),
		Analytics: analytics.NewService(orders),
	}
	return &fixture{
		router:   SetupRouter(app),
		tokens:   tokens,
		users:    users,
		products: products,
		orders:   orders,
		reviews:  reviews,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := f.tokens.Generate(userID, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func (f *fixture) seedUser(id, email, role string) {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	f.users.byID[id] = &user.User{ID: id, Email: email, Role: role, CreatedAt: time.Now().UTC()}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &resp)
	return resp.Error
}

// memUsers is an in-memory user.Repository keyed by id with a unique email
// constraint, mirroring the table.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]*user.User
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.byID {
		if ex.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUsers) AdjustCreditPoints(_ context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	if u.CreditPoints+delta < 0 {
		return user.ErrInsufficientCredit
	}
	u.CreditPoints += delta
	return nil
}

// memProducts is an in-memory product.Repository with the same visibility
// rules as the SQL queries: List hides inactive rows, GetByID does not.
type memProducts struct {
	mu   sync.Mutex
	byID map[string]*product.Product
}

func (m *memProducts) Create(_ context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(_ context.Context, q product.Query) ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []product.Product
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range m.byID {
		if !p.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, *p)
	}
	if q.SortBy == "price" {
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Price.Equal(out[j].Price) {
				return out[i].Price.LessThan(out[j].Price)
			}
			return out[i].Name < out[j].Name
		})
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *product.Product, updatePrice bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[p.ID]
	if !ok {
		return product.ErrNotFound
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if p.Description != "" {
		cur.Description = p.Description
	}
	if p.Category != "" {
		cur.Category = p.Category
	}
	if p.ImageURL != "" {
		cur.ImageURL = p.ImageURL
	}
	if updatePrice {
		cur.Price = p.Price
	}
	return nil
}

func (m *memProducts) SoftDelete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	p.IsActive = false
	return true, nil
}

// memOrders is an in-memory order.Repository. MarkPaid replicates the
// conditional single-row write under the mutex.
type memOrders struct {
	mu   sync.Mutex
	byID map[string]*order.Order
}

func (m *memOrders) put(o order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = &o
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	m.put(*o)
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string, f order.Filter) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []order.Order
	for _, o := range m.byID {
		if o.UserID == userID && (f.Status == "" || o.Status == f.Status) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) ListAll(_ context.Context, f order.Filter) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []order.Order
	for _, o := range m.byID {
		if f.Status == "" || o.Status == f.Status {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) ListByDateRange(_ context.Context, start, end time.Time) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []order.Order
	for _, o := range m.byID {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memOrders) MarkPaid(_ context.Context, id, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok || o.Status != order.StatusOrdered {
		return order.ErrNotPayable
	}
	o.Status = order.StatusPaid
	o.TransactionID = transactionID
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// memReviews is an in-memory review.Repository joined against memUsers for
// the reviewer email, like the SQL listing does.
type memReviews struct {
	mu    sync.Mutex
	rows  []review.Review
	users *memUsers
}

func (m *memReviews) Create(_ context.Context, rv *review.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.rows {
		if ex.OrderID == rv.OrderID && ex.UserID == rv.UserID && ex.ProductID == rv.ProductID {
			return review.ErrAlreadyExist
		}
	}
	m.rows = append(m.rows, *rv)
	return nil
}

func (m *memReviews) ListByProduct(_ context.Context, productID string, limit, offset int) ([]review.ProductReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []review.ProductReview
	for _, rv := range m.rows {
		if rv.ProductID != productID || !rv.IsApproved {
			continue
		}
		pr := review.ProductReview{Review: rv}
		if u, err := m.users.GetByID(context.Background(), rv.UserID); err == nil {
			pr.UserEmail = u.Email
		}
		out = append(out, pr)
	}
	return out, nil
}
