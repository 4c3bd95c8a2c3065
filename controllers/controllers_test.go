package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"farm-shop/libs"
	"farm-shop/middleware"
	"farm-shop/models"
	"farm-shop/repositories"
	"farm-shop/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog map[int64]models.Product

func (s stubCatalog) LookupMany(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	out := map[int64]models.Product{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s stubCatalog) GetByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	return &p, nil
}

type memoryOrders struct {
	mu     sync.Mutex
	next   int64
	orders map[int64]models.Order
}

func (m *memoryOrders) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.OrderID = m.next
	order.Created = time.Now()
	m.next++
	m.orders[order.OrderID] = *order
	return nil
}

func (m *memoryOrders) AttachInvoice(_ context.Context, id int64, invoice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[id]
	o.Invoice = &invoice
	m.orders[id] = o
	return nil
}

func (m *memoryOrders) MarkNotified(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repositories.ErrOrderNotFound
	}
	o.Notified = true
	m.orders[id] = o
	return nil
}

func (m *memoryOrders) GetByID(_ context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memoryOrders) List(_ context.Context, _, _ int) ([]*models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Order, 0, len(m.orders))
	for id := range m.orders {
		o := m.orders[id]
		out = append(out, &o)
	}
	return out, len(out), nil
}

type testApp struct {
	router *gin.Engine
	orders *memoryOrders
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := stubCatalog{
		1: {ID: 1, Name: "Eggs", Slug: "eggs", Price: decimal.NewFromInt(100)},
		2: {ID: 2, Name: "Honey", Slug: "honey", Price: decimal.RequireFromString("450.50")},
	}
	sessions := repositories.NewMemorySessionStore()
	orders := &memoryOrders{next: 316, orders: map[int64]models.Order{}}
	store := libs.NewLocalStore(t.TempDir(), 5<<20)
	renderer := libs.NewPDFRenderer("Wamugunda Farm", "KSh", time.UTC)
	shipping := models.DefaultShippingTable

	carts := services.NewCartService(sessions, catalog, shipping, "Wamugunda Farm", "KSh")
	checkout := services.NewCheckoutService(sessions, repositories.NewMemoryLocker(), carts, orders, renderer, store, nil,
		shipping, services.CheckoutConfig{LinkBase: "https://wa.me/254700000000", Currency: "KSh"})

	cart := NewCartController(carts, checkout, shipping, "KSh")
	admin := NewAdminController(services.NewOrderService(orders, renderer), nil, nil, store)

	router := gin.New()
	public := router.Group("/")
	public.Use(middleware.SessionMiddleware(middleware.SessionOptions{CookieName: "farm_session", TTL: time.Hour}))
	public.GET("/cart", cart.Detail)
	public.POST("/cart/add/:product_id", cart.Add)
	public.POST("/cart/remove/:product_id", cart.Remove)
	public.POST("/cart/update", cart.Update)
	public.POST("/cart/set-shipping", cart.SetShipping)
	public.POST("/cart/create-whatsapp-order", cart.CreateWhatsAppOrder)
	router.GET("/admin/orders", admin.ListOrders)
	router.GET("/admin/orders/:id", admin.GetOrder)
	router.GET("/admin/orders/:id/invoice", admin.OrderInvoice)
	router.PATCH("/admin/orders/:id/notified", admin.MarkOrderNotified)

	return &testApp{router: router, orders: orders}
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

func (a *testApp) do(t *testing.T, method, path, session, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestCartCheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/cart", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	session := w.Header().Get(middleware.SessionHeader)
	_, err := uuid.Parse(session)
	require.NoError(t, err)

	w, env = app.do(t, http.MethodPost, "/cart/add/1", session, "application/json", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"Eggs" added to cart!`, env.Message)
	var added struct {
		CartCount int    `json:"cart_count"`
		Subtotal  string `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &added))
	assert.Equal(t, 2, added.CartCount)
	assert.Equal(t, "200", added.Subtotal)

	w, env = app.do(t, http.MethodPost, "/cart/set-shipping", session, "application/x-www-form-urlencoded", "shipping_zone=Runda")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Delivery zone set: Runda (+KSh 300)", env.Message)

	w, env = app.do(t, http.MethodGet, "/cart", session, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		TotalItems int    `json:"total_items"`
		Total      string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, "500", view.Total)

	w, env = app.do(t, http.MethodPost, "/cart/create-whatsapp-order", session, "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var result models.CheckoutResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(316), result.OrderID)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, "invoices/invoice_316.pdf", *result.Invoice)

	link, err := url.Parse(result.DeepLink)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	assert.Contains(t, link.Query().Get("text"), "TOTAL: KSh 500.00")
	assert.NotContains(t, result.DeepLink, "+")

	w, env = app.do(t, http.MethodPost, "/cart/create-whatsapp-order", session, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.ErrEmptyCart.Error(), env.Message)

	w, _ = app.do(t, http.MethodGet, "/admin/orders/316/invoice", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_316.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestCartAddErrors(t *testing.T) {
	app := newTestApp(t)
	session := uuid.NewString()

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"unknown product", "/cart/add/99", "", "", http.StatusNotFound},
		{"bad product id", "/cart/add/abc", "", "", http.StatusBadRequest},
		{"zero quantity", "/cart/add/1", "application/json", `{"quantity":0}`, http.StatusBadRequest},
		{"non numeric quantity", "/cart/add/1", "application/x-www-form-urlencoded", "quantity=lots", http.StatusBadRequest},
		{"default quantity", "/cart/add/2", "", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := app.do(t, http.MethodPost, tt.path, session, tt.contentType, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	app := newTestApp(t)
	session := uuid.NewString()

	w, _ := app.do(t, http.MethodPost, "/cart/add/1", session, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodPost, "/cart/add/2", session, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(t, http.MethodPost, "/cart/update", session, "application/json", `{"quantity_1": 4, "quantity_2": "0", "quantity_x": "1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var result models.BulkUpdateResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []int64{1}, result.Updated)
	assert.Equal(t, []int64{2}, result.Removed)
	assert.Contains(t, result.Rejected, "quantity_x")

	w, _ = app.do(t, http.MethodPost, "/cart/remove/1", session, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodPost, "/cart/remove/1", session, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(t, http.MethodGet, "/cart", session, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view models.CartView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Empty(t, view.Items)
}

func TestCartQuantityCap(t *testing.T) {
	app := newTestApp(t)
	session := uuid.NewString()

	w, _ := app.do(t, http.MethodPost, "/cart/add/1", session, "application/x-www-form-urlencoded", "quantity=9223372036854775807")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPost, "/cart/add/1", session, "application/x-www-form-urlencoded", "quantity=999")
	require.Equal(t, http.StatusOK, w.Code)
	w, env := app.do(t, http.MethodPost, "/cart/add/1", session, "application/x-www-form-urlencoded", "quantity=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrQuantityTooLarge.Error(), env.Message)

	for _, body := range []struct{ contentType, payload string }{
		{"application/json", `{"quantity_1": 1000000}`},
		{"application/x-www-form-urlencoded", "quantity_1=1000000"},
	} {
		w, env = app.do(t, http.MethodPost, "/cart/update", session, body.contentType, body.payload)
		require.Equal(t, http.StatusOK, w.Code, body.contentType)
		var result models.BulkUpdateResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, models.ErrQuantityTooLarge.Error(), result.Rejected["quantity_1"], body.contentType)
	}

	w, env = app.do(t, http.MethodPost, "/cart/update", session, "application/json", `{"quantity_1": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
	var result models.BulkUpdateResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []int64{1}, result.Updated)
	assert.Empty(t, result.Rejected)
}

func TestSetShippingUnknownZoneClears(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodPost, "/cart/set-shipping", uuid.NewString(), "application/json", `{"shipping_zone":"Mombasa"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Delivery zone cleared.", env.Message)
}

func TestAdminOrders(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.orders.Create(context.Background(), &models.Order{
		TotalPaid:    decimal.NewFromInt(200),
		ShippingZone: models.ZoneNotSelected,
		Items:        []models.OrderItem{{Name: "Eggs", Quantity: 2, Price: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)}},
	}))

	w, _ := app.do(t, http.MethodGet, "/admin/orders", "", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(t, http.MethodGet, "/admin/orders/316", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "200", detail.Total)

	w, _ = app.do(t, http.MethodGet, "/admin/orders/316/invoice", "", "", "")
	require.Equal(t, http.StatusOK, w.Code, "invoice is rendered again when none was stored")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w, _ = app.do(t, http.MethodPatch, "/admin/orders/316/notified", "", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodGet, "/admin/orders/999", "", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = app.do(t, http.MethodGet, "/admin/orders/0", "", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminInvoiceRedirectsRemote(t *testing.T) {
	app := newTestApp(t)
	remote := "https://res.cloudinary.com/demo/raw/upload/invoices/invoice_316.pdf"
	require.NoError(t, app.orders.Create(context.Background(), &models.Order{Invoice: &remote}))

	w, _ := app.do(t, http.MethodGet, "/admin/orders/316/invoice", "", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, remote, w.Header().Get("Location"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repositories.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", repositories.ErrRecipeNotFound), http.StatusNotFound},
		{repositories.ErrDuplicateSlug, http.StatusConflict},
		{services.ErrCheckoutInProgress, http.StatusConflict},
		{services.ErrEmptyCart, http.StatusBadRequest},
		{models.ErrInvalidQuantity, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "short_description", jsonFieldName("ShortDescription"))
	assert.Equal(t, "category_id", jsonFieldName("CategoryID"))
	assert.Equal(t, "email", jsonFieldName("Email"))
}

func TestLoginValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", NewAuthController(nil).Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, "must be a valid email", env.Fields["email"])
	assert.Equal(t, "is required", env.Fields["password"])
}
