package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/capsulahaus/shop/internal/domain"
	"github.com/capsulahaus/shop/internal/usecase"
)

// In-memory fakes behind the handler tests.

type memProductRepo struct {
	products map[uuid.UUID]domain.Product
	order    []uuid.UUID
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[uuid.UUID]domain.Product{}}
}

func (r *memProductRepo) Save(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, id := range r.order {
		if p := r.products[id]; p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memProductRepo) ListAll(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memProductRepo) ReplaceImages(_ context.Context, productID uuid.UUID, imgs []domain.Image) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Images = imgs
	r.products[productID] = p
	return nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]domain.Order{}}
}

func (r *memOrderRepo) Save(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) List(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memOrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type memPageRepo struct {
	content map[string]domain.PageContent
	blocks  map[uuid.UUID]domain.PageBlock
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{content: map[string]domain.PageContent{}, blocks: map[uuid.UUID]domain.PageBlock{}}
}

func (r *memPageRepo) SaveContent(_ context.Context, c *domain.PageContent) error {
	r.content[c.Slug] = *c
	return nil
}

func (r *memPageRepo) FindContent(_ context.Context, slug string) (*domain.PageContent, error) {
	c, ok := r.content[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *memPageRepo) SaveBlock(_ context.Context, b *domain.PageBlock) error {
	r.blocks[b.ID] = *b
	return nil
}

func (r *memPageRepo) FindBlock(_ context.Context, id uuid.UUID) (*domain.PageBlock, error) {
	b, ok := r.blocks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memPageRepo) ListBlocks(_ context.Context, pageSlug string) ([]domain.PageBlock, error) {
	out := make([]domain.PageBlock, 0, len(r.blocks))
	for _, b := range r.blocks {
		if b.PageSlug == pageSlug {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memPageRepo) SaveBlocks(_ context.Context, blocks []domain.PageBlock) error {
	for _, b := range blocks {
		r.blocks[b.ID] = b
	}
	return nil
}

func (r *memPageRepo) DeleteBlock(_ context.Context, id uuid.UUID) error {
	if _, ok := r.blocks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.blocks, id)
	return nil
}

type memBrochureRepo struct {
	brochures map[uuid.UUID]domain.Brochure
}

func newMemBrochureRepo() *memBrochureRepo {
	return &memBrochureRepo{brochures: map[uuid.UUID]domain.Brochure{}}
}

func (r *memBrochureRepo) Save(_ context.Context, b *domain.Brochure) error {
	r.brochures[b.ID] = *b
	return nil
}

func (r *memBrochureRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Brochure, error) {
	b, ok := r.brochures[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memBrochureRepo) ListAll(_ context.Context) ([]domain.Brochure, error) {
	out := make([]domain.Brochure, 0, len(r.brochures))
	for _, b := range r.brochures {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memBrochureRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.brochures[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.brochures, id)
	return nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[string]domain.Customer{}}
}

func (r *memCustomerRepo) Save(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.Email] = *c
	return nil
}

func (r *memCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

type memFailureRepo struct {
	mu   sync.Mutex
	rows []domain.NotifyFailure
}

func (r *memFailureRepo) Save(_ context.Context, f *domain.NotifyFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *f)
	return nil
}

func (r *memFailureRepo) ListRecent(_ context.Context, limit int) ([]domain.NotifyFailure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.rows) {
		limit = len(r.rows)
	}
	return r.rows[:limit], nil
}

// fakeNotifier records every delivery call; err, when set, is returned
// from all of them.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *fakeNotifier) record(call string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
	return n.err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *fakeNotifier) lastCall() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return ""
	}
	return n.calls[len(n.calls)-1]
}

func (n *fakeNotifier) SendOrder(_ context.Context, o *domain.Order, email, _ string) error {
	return n.record("order:" + o.OrderNumber + ":" + email)
}

func (n *fakeNotifier) SendOrderStatus(_ context.Context, o *domain.Order, status domain.OrderStatus, reason, _, email string) error {
	return n.record("order-status:" + o.OrderNumber + ":" + string(status) + ":" + reason + ":" + email)
}

func (n *fakeNotifier) SendCallback(_ context.Context, name, phone string) error {
	return n.record("callback:" + name + ":" + phone)
}

func (n *fakeNotifier) SendConsultation(_ context.Context, name, phone string) error {
	return n.record("consultation:" + name + ":" + phone)
}

func (n *fakeNotifier) SendContact(_ context.Context, name, email, _, _ string) error {
	return n.record("contact:" + name + ":" + email)
}

func (n *fakeNotifier) SendPartner(_ context.Context, company, name, _, _ string) error {
	return n.record("partner:" + company + ":" + name)
}

type testEnv struct {
	handler   http.Handler
	products  *memProductRepo
	orders    *memOrderRepo
	pages     *memPageRepo
	brochures *memBrochureRepo
	failures  *memFailureRepo
	notifier  *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASS", "hunter2hunter2")
	t.Setenv("ADMIN_SECRET", "test-admin-secret")
	t.Setenv("SESSION_KEY", "test-session-key")

	env := &testEnv{
		products:  newMemProductRepo(),
		orders:    newMemOrderRepo(),
		pages:     newMemPageRepo(),
		brochures: newMemBrochureRepo(),
		failures:  &memFailureRepo{},
		notifier:  &fakeNotifier{},
	}
	env.handler = New(Deps{
		Catalog:   &usecase.CatalogUC{Products: env.products},
		Orders:    usecase.NewOrderUC(env.orders),
		Content:   usecase.NewContentUC(env.pages),
		Brochures: &usecase.BrochureUC{Brochures: env.brochures},
		Customers: newMemCustomerRepo(),
		Failures:  env.failures,
		Notifier:  env.notifier,
	})
	return env
}

func (e *testEnv) seedProduct(t *testing.T, name, category string, price int64, guests int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:       uuid.New(),
		Slug:     usecase.Slugify(name),
		Name:     name,
		Category: category,
		Price:    price,
		Guests:   guests,
		InStock:  true,
	}
	require.NoError(t, e.products.Save(context.Background(), &p))
	return p
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/admin/login", map[string]string{"user": "admin", "pass": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) doAdmin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.adminToken(t))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func cartCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "cart" {
			return c
		}
	}
	t.Fatal("no cart cookie in response")
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
