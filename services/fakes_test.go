package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"farm-shop/models"
	"farm-shop/repositories"

	"github.com/shopspring/decimal"
)

type fakeProducts struct {
	mu         sync.Mutex
	products   map[int64]models.Product
	categories []models.Category
	images     []models.ProductImage
	reviews    []models.Review
	listCalls  int
	lookupErr  error
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[int64]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func product(id int64, name, price string) models.Product {
	return models.Product{
		ID:         id,
		CategoryID: 1,
		Name:       name,
		Slug:       Slugify(name),
		Price:      decimal.RequireFromString(price),
		Available:  true,
		InStock:    true,
	}
}

func (f *fakeProducts) sorted() []models.Product {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeProducts) LookupMany(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := map[int64]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeProducts) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, repositories.ErrProductNotFound
}

func (f *fakeProducts) ListAvailable(_ context.Context, page, limit int) ([]models.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	all := f.sorted()
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Product{}, len(all), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeProducts) ListByCategory(_ context.Context, categoryID int64, _, _ int) ([]models.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.sorted() {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakeProducts) ListHighlighted(_ context.Context, badge string, limit int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.sorted() {
		match := p.IsFeatured
		switch badge {
		case "hot":
			match = p.IsHot
		case "new":
			match = p.IsNew
		}
		if match && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListRelated(_ context.Context, categoryID, excludeID int64, limit int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.sorted() {
		if p.CategoryID == categoryID && p.ID != excludeID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeProducts) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, repositories.ErrCategoryNotFound
}

func (f *fakeProducts) ListImages(_ context.Context, productID int64) ([]models.ProductImage, error) {
	var out []models.ProductImage
	for _, img := range f.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeProducts) AddImage(_ context.Context, img *models.ProductImage) error {
	img.ID = int64(len(f.images) + 1)
	f.images = append(f.images, *img)
	return nil
}

func (f *fakeProducts) DeleteImage(_ context.Context, productID, imageID int64) (*models.ProductImage, error) {
	for i, img := range f.images {
		if img.ID == imageID && img.ProductID == productID {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return &img, nil
		}
	}
	return nil, repositories.ErrImageNotFound
}

func (f *fakeProducts) ListApprovedReviews(_ context.Context, productID int64) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ProductID == productID && r.IsApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeProducts) CreateReview(_ context.Context, review *models.Review) error {
	review.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeProducts) ApproveReview(_ context.Context, id int64) error {
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			f.reviews[i].IsApproved = true
			return nil
		}
	}
	return repositories.ErrReviewNotFound
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.products {
		if existing.Slug == p.Slug {
			return repositories.ErrDuplicateSlug
		}
	}
	p.ID = int64(len(f.products) + 100)
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repositories.ErrProductNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repositories.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProducts) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

type fakeOrders struct {
	mu        sync.Mutex
	next      int64
	now       time.Time
	orders    map[int64]*models.Order
	createErr error
	attachErr error
}

func newFakeOrders(now time.Time) *fakeOrders {
	return &fakeOrders{next: 316, now: now, orders: map[int64]*models.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	order.OrderID = f.next
	order.Created = f.now
	f.next++
	stored := *order
	f.orders[order.OrderID] = &stored
	return nil
}

func (f *fakeOrders) AttachInvoice(_ context.Context, orderID int64, invoice string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	o.Invoice = &invoice
	return nil
}

func (f *fakeOrders) MarkNotified(_ context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	o.Notified = true
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, orderID int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrders) List(_ context.Context, page, limit int) ([]*models.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.orders))
	for id := range f.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	var out []*models.Order
	for i, id := range ids {
		if i >= (page-1)*limit && len(out) < limit {
			out = append(out, f.orders[id])
		}
	}
	return out, len(ids), nil
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeRenderer struct {
	err      error
	rendered []int64
}

func (f *fakeRenderer) RenderInvoice(order *models.Order) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, order.OrderID)
	return []byte("%PDF-fake"), nil
}

func (f *fakeRenderer) RenderRecipe(recipe *models.Recipe) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-" + recipe.Slug), nil
}

type fakeDocuments struct {
	err   error
	saved map[string][]byte
}

func (f *fakeDocuments) Save(_ context.Context, name string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[name] = data
	return "invoices/" + name, nil
}

type fakeNotifier struct {
	err      error
	hook     func()
	orders   []int64
	invoices [][]byte
}

func (f *fakeNotifier) NotifyOrder(_ context.Context, order *models.Order, invoice []byte) error {
	if f.hook != nil {
		f.hook()
	}
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order.OrderID)
	f.invoices = append(f.invoices, invoice)
	return nil
}

// recordingLocker remembers the token of every lock it hands out.
type recordingLocker struct {
	repositories.Locker
	tokens []string
}

func (l *recordingLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token, err := l.Locker.TryLock(ctx, key, ttl)
	if err == nil {
		l.tokens = append(l.tokens, token)
	}
	return token, err
}

type fakeCache struct {
	pages map[int]*models.ShopPage
	sets  int
	err   error
}

func (f *fakeCache) Get(_ context.Context, page, _ int) (*models.ShopPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if shop, ok := f.pages[page]; ok {
		return shop, nil
	}
	return nil, repositories.ErrCacheMiss
}

func (f *fakeCache) Set(_ context.Context, page, _ int, shop *models.ShopPage) error {
	if f.pages == nil {
		f.pages = map[int]*models.ShopPage{}
	}
	f.sets++
	f.pages[page] = shop
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.pages = nil
	return nil
}

var errBoom = errors.New("boom")
