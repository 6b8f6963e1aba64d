package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/session"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	cfg := &config.Config{
		TaxRate:              0.15,
		FreeShippingMin:      100,
		ShippingPrice:        10,
		UploadDir:            t.TempDir(),
		MaxUploadBytes:       1 << 20,
		StripePublishableKey: "pk_test_123",
		PayPalClientID:       "paypal-client-id",
	}

	return &application{
		cfg:      cfg,
		infoLog:  log.New(io.Discard, "", 0),
		errorLog: log.New(io.Discard, "", 0),
		sessions: session.NewManager("test-secret", time.Hour),
		users:    newMockUserStore(),
		products: newMockProductStore(),
		orders:   newMockOrderStore(),
		stripe:   &fakeGateway{},
	}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	ts.Client().Jar = jar

	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method, urlPath string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, respBody
}

func (ts *testServer) get(t *testing.T, urlPath string) (int, []byte) {
	return ts.do(t, http.MethodGet, urlPath, nil)
}

func (ts *testServer) postJSON(t *testing.T, urlPath string, body interface{}) (int, []byte) {
	return ts.do(t, http.MethodPost, urlPath, body)
}

func (ts *testServer) putJSON(t *testing.T, urlPath string, body interface{}) (int, []byte) {
	return ts.do(t, http.MethodPut, urlPath, body)
}

// --- in-memory stores ---

type mockUserStore struct {
	mu    sync.Mutex
	users []*models.User
	// password by user id hex; mocks skip bcrypt on purpose
	passwords map[string]string
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{passwords: map[string]string{}}
}

func (s *mockUserStore) seed(name, email, password string, isAdmin bool) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}
	s.users = append(s.users, u)
	s.passwords[u.ID.Hex()] = password
	return u
}

func (s *mockUserStore) Insert(ctx context.Context, name, email, password string) (*models.User, error) {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == email {
			s.mu.Unlock()
			return nil, models.ErrDuplicateEmail
		}
	}
	s.mu.Unlock()
	return s.seed(name, email, password, false), nil
}

func (s *mockUserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email && s.passwords[u.ID.Hex()] == password {
			return u, nil
		}
	}
	return nil, models.ErrInvalidCredentials
}

func (s *mockUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, models.ErrNoRecord
}

func (s *mockUserStore) GetAll(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.User{}, s.users...), nil
}

func (s *mockUserStore) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() != id {
			continue
		}
		if upd.Name != "" {
			u.Name = upd.Name
		}
		if upd.Email != "" {
			u.Email = upd.Email
		}
		if upd.Password != "" {
			s.passwords[id] = upd.Password
		}
		if upd.IsAdmin != nil {
			u.IsAdmin = *upd.IsAdmin
		}
		return u, nil
	}
	return nil, models.ErrNoRecord
}

func (s *mockUserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID.Hex() == id {
			if u.IsAdmin {
				return models.ErrAdminDelete
			}
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return models.ErrNoRecord
}

type mockProductStore struct {
	mu       sync.Mutex
	products []*models.Product
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{}
}

func (s *mockProductStore) seed(name string, price float64, stock int) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Product{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Price:        price,
		CountInStock: stock,
		Reviews:      []models.Review{},
	}
	s.products = append(s.products, p)
	return p
}

func (s *mockProductStore) find(id string) *models.Product {
	for _, p := range s.products {
		if p.ID.Hex() == id {
			return p
		}
	}
	return nil
}

func (s *mockProductStore) List(ctx context.Context, keyword string, page int) (*models.ProductPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}

	matched := []*models.Product{}
	for _, p := range s.products {
		if keyword == "" || containsFold(p.Name, keyword) {
			matched = append(matched, p)
		}
	}

	pages := (len(matched) + models.PageSize - 1) / models.PageSize
	start := models.PageSize * (page - 1)
	end := start + models.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &models.ProductPage{Products: matched[start:end], Page: page, Pages: pages}, nil
}

func (s *mockProductStore) Get(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.find(id); p != nil {
		return p, nil
	}
	return nil, models.ErrNoRecord
}

func (s *mockProductStore) Top(ctx context.Context, n int) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	top := append([]*models.Product{}, s.products...)
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if top[j].Rating > top[i].Rating {
				top[i], top[j] = top[j], top[i]
			}
		}
	}
	if n < len(top) {
		top = top[:n]
	}
	return top, nil
}

func (s *mockProductStore) Insert(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	s.products = append(s.products, p)
	return nil
}

func (s *mockProductStore) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return nil, models.ErrNoRecord
	}
	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	p.Image = in.Image
	p.Brand = in.Brand
	p.Category = in.Category
	p.CountInStock = in.CountInStock
	return p, nil
}

func (s *mockProductStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID.Hex() == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return models.ErrNoRecord
}

func (s *mockProductStore) AddReview(ctx context.Context, id string, rev models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return models.ErrNoRecord
	}
	for _, existing := range p.Reviews {
		if existing.User == rev.User {
			return models.ErrDuplicateReview
		}
	}
	rev.ID = primitive.NewObjectID()
	p.Reviews = append(p.Reviews, rev)
	p.NumReviews = len(p.Reviews)
	p.Rating = models.MeanRating(p.Reviews)
	return nil
}

func (s *mockProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return models.ErrNoRecord
	}
	if p.CountInStock < qty {
		return models.ErrInsufficientStock
	}
	p.CountInStock -= qty
	return nil
}

func (s *mockProductStore) IncrementStock(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return models.ErrNoRecord
	}
	p.CountInStock += qty
	return nil
}

type mockOrderStore struct {
	mu     sync.Mutex
	orders []*models.Order
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{}
}

func (s *mockOrderStore) find(id string) *models.Order {
	for _, o := range s.orders {
		if o.ID.Hex() == id {
			return o
		}
	}
	return nil
}

func (s *mockOrderStore) Insert(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	s.orders = append(s.orders, o)
	return nil
}

func (s *mockOrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil {
		return o, nil
	}
	return nil, models.ErrNoRecord
}

func (s *mockOrderStore) ByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := []*models.Order{}
	for _, o := range s.orders {
		if o.User == userID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

func (s *mockOrderStore) All(ctx context.Context) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Order{}, s.orders...), nil
}

func (s *mockOrderStore) MarkPaid(ctx context.Context, id string, pr models.PaymentResult) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, models.ErrNoRecord
	}
	if o.IsPaid {
		if o.PaymentResult != nil && o.PaymentResult.ID == pr.ID {
			return o, nil
		}
		return nil, models.ErrAlreadyPaid
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &pr
	return o, nil
}

func (s *mockOrderStore) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, models.ErrNoRecord
	}
	now := time.Now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	return o, nil
}

type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]*payments.Intent
	fail    error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return nil, g.fail
	}
	if currency == "" {
		currency = "usd"
	}
	if g.intents == nil {
		g.intents = map[string]*payments.Intent{}
	}
	intent := &payments.Intent{
		ID:           primitive.NewObjectID().Hex(),
		ClientSecret: "cs_test_secret",
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Currency:     currency,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) GetIntent(ctx context.Context, id string) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return nil, g.fail
	}
	if intent, ok := g.intents[id]; ok {
		return intent, nil
	}
	return nil, errNoSuchIntent
}

var errNoSuchIntent = &intentError{"No such payment_intent"}

type intentError struct{ msg string }

func (e *intentError) Error() string { return e.msg }

func containsFold(haystack, needle string) bool {
	return len(needle) == 0 ||
		bytes.Contains(bytes.ToLower([]byte(haystack)), bytes.ToLower([]byte(needle)))
}
