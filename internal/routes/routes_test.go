package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/config"
	"gizmohub_back_end/internal/database"
	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/testutil"
	"gizmohub_back_end/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newServer(t *testing.T, withRedis bool) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, database.SeedAdmin(db, "admin", "admin123", "Store Admin"))

	deps := Deps{
		DB: db,
		Config: config.Config{
			TaxRate:           decimal.RequireFromString("0.08"),
			LowStockThreshold: 20,
			Currency:          "php",
			CORSOrigins:       []string{"*"},
		},
		Tokens: utils.NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour),
	}
	if withRedis {
		mr := miniredis.RunT(t)
		deps.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { deps.Redis.Close() })
	}
	return &testServer{t: t, db: db, router: Setup(deps)}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *testServer) register(email, firstName, password string) {
	s.t.Helper()
	w, _ := s.do("POST", "/api/auth/register", "", map[string]any{
		"email": email, "first_name": firstName, "last_name": "Test", "password": password,
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
}

func (s *testServer) login(credential, password string) (string, uint) {
	s.t.Helper()
	w, body := s.do("POST", "/api/auth/login", "", map[string]any{"email": credential, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	user := body["user"].(map[string]any)
	return body["token"].(string), uint(user["id"].(float64))
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	w, body := s.do("POST", "/api/auth/admin-login", "", map[string]any{"username": "admin", "password": "admin123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return body["token"].(string)
}

func (s *testServer) seedProduct(name, price string, stock int) models.Product {
	s.t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(s.t, s.db.Create(&p).Error)
	return p
}

func TestHealthEndpoints(t *testing.T) {
	s := newServer(t, false)

	w, body := s.do("GET", "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, body = s.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t, false)
	s.register("ana@example.com", "Ana", "secret1")

	w, body := s.do("POST", "/api/auth/register", "", map[string]any{
		"email": "ana@example.com", "first_name": "Ana", "last_name": "Test", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already registered", body["error"])

	w, _ = s.do("POST", "/api/auth/register", "", map[string]any{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token, id := s.login("Ana", "secret1")
	assert.NotEmpty(t, token)

	w, body = s.do("GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, id, body["id"])
	assert.Equal(t, models.RoleCustomer, body["role"])

	w, body = s.do("POST", "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", body["error"])

	w, body = s.do("POST", "/api/auth/admin-login", "", map[string]any{"username": "admin", "password": "admin123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, body["user"].(map[string]any)["role"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newServer(t, false)

	w, _ := s.do("GET", "/api/cart/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do("GET", "/api/cart/1", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.register("ana@example.com", "Ana", "secret1")
	s.register("ben@example.com", "Ben", "secret2")
	token, _ := s.login("ana@example.com", "secret1")
	_, benID := s.login("ben@example.com", "secret2")

	w, _ = s.do("GET", fmt.Sprintf("/api/cart/%d", benID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do("POST", "/api/cart", token, map[string]any{"customer_id": benID, "product_id": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do("POST", "/api/products", token, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do("GET", "/api/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	s := newServer(t, false)
	a := s.seedProduct("Laptop", "10.00", 5)
	b := s.seedProduct("Mouse", "5.00", 5)
	s.register("ana@example.com", "Ana", "secret1")
	token, id := s.login("ana@example.com", "secret1")

	w, _ := s.do("POST", "/api/cart", token, map[string]any{"customer_id": id, "product_id": a.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do("POST", "/api/cart", token, map[string]any{"customerId": id, "productId": a.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w, body := s.do("POST", "/api/cart", token, map[string]any{"product_id": b.ID})
	require.Equal(t, http.StatusOK, w.Code)

	cart := body["cart"].(map[string]any)
	assert.Len(t, cart["items"], 2)
	assert.Equal(t, "25", cart["subtotal"])
	assert.Equal(t, "27", cart["total"])

	w, body = s.do("POST", "/api/orders", token, map[string]any{"customer_id": id, "status": "Completed"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := body["order_id"]
	order := body["order"].(map[string]any)
	assert.Equal(t, models.OrderStatusPending, order["status"])
	assert.Equal(t, "27", order["total"])

	w, body = s.do("GET", fmt.Sprintf("/api/cart/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])

	w, body = s.do("POST", "/api/payments", token, map[string]any{
		"order_id":       orderID,
		"payment_method": "credit",
		"amount":         "27.00",
		"card_details":   map[string]any{"card_number": "4242 4242 4242 4242", "card_holder": "Ana Test"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := body["payment"].(map[string]any)
	assert.Equal(t, "4242", payment["card_last4"])
	assert.NotContains(t, w.Body.String(), "4242424242424242")

	w, _ = s.do("POST", "/api/payments", token, map[string]any{"order_id": orderID, "payment_method": "gcash"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do("GET", fmt.Sprintf("/api/orders/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusCompleted, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)

	w, body = s.do("GET", "/api/admin/stats", s.adminToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "27", body["totalRevenue"])
}

func TestCheckoutOutOfStockConflicts(t *testing.T) {
	s := newServer(t, false)
	a := s.seedProduct("Laptop", "10.00", 1)
	s.register("ana@example.com", "Ana", "secret1")
	token, id := s.login("ana@example.com", "secret1")

	w, body := s.do("POST", "/api/orders", token, map[string]any{
		"customer_id": id,
		"items":       []map[string]any{{"product_id": a.ID, "quantity": 2, "price": "10.00"}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, body["error"], "insufficient stock")
}

func TestAdminCatalogManagement(t *testing.T) {
	s := newServer(t, false)
	admin := s.adminToken()

	w, body := s.do("POST", "/api/categories", admin, map[string]any{"name": "Laptops"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := body["category_id"]
	w, body = s.do("POST", "/api/brands", admin, map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	brandID := body["brand_id"]

	w, _ = s.do("POST", "/api/products", admin, map[string]any{"name": "Book", "price": "999.99", "stock": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do("POST", "/api/products", admin, map[string]any{
		"name": "Book", "price": "999.99", "stock": 3, "category_id": categoryID, "brand_id": brandID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID := body["product_id"]

	w, _ = s.do("GET", "/api/products/category/9999", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w, _ = s.do("DELETE", fmt.Sprintf("/api/brands/%v", brandID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = s.do("GET", fmt.Sprintf("/api/products/%v", productID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["brand_name"])
	assert.Equal(t, "Laptops", body["category_name"])

	w, _ = s.do("GET", "/api/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do("GET", "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do("GET", "/api/products/search?q=book", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 1)

	w, _ = s.do("POST", fmt.Sprintf("/api/products/%v/image", productID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do("GET", "/api/admin/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &low))
	assert.Len(t, low, 1)
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	s := newServer(t, false)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w, body := s.do("GET", "/api/products", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", body["error"])
	assert.Equal(t, "ERR_INTERNAL", body["code"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), body["request_id"])
	assert.NotContains(t, w.Body.String(), "sql")
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newServer(t, true)
	s.register("ana@example.com", "Ana", "secret1")
	token, id := s.login("ana@example.com", "secret1")

	w, _ := s.do("GET", fmt.Sprintf("/api/cart/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do("POST", "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := s.do("GET", fmt.Sprintf("/api/cart/%d", id), token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token has been revoked", body["error"])
}

func TestLoginRateLimit(t *testing.T) {
	s := newServer(t, true)
	s.register("ana@example.com", "Ana", "secret1")

	for i := 0; i < 5; i++ {
		w, _ := s.do("POST", "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, body := s.do("POST", "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, body["error"], "too many failed logins")
}

func TestAdminMustNameTheCustomer(t *testing.T) {
	s := newServer(t, false)
	p := s.seedProduct("Laptop", "10.00", 5)
	s.register("ana@example.com", "Ana", "secret1")
	_, anaID := s.login("ana@example.com", "secret1")
	admin := s.adminToken()

	w, body := s.do("POST", "/api/cart", admin, map[string]any{"product_id": p.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "customer_id is required", body["error"])

	w, body = s.do("POST", "/api/orders", admin, map[string]any{
		"items": []map[string]any{{"product_id": p.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "customer_id is required", body["error"])

	var n int64
	require.NoError(t, s.db.Model(&models.CartItem{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, s.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)

	w, _ = s.do("POST", "/api/cart", admin, map[string]any{"customer_id": anaID, "product_id": p.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, body = s.do("POST", "/api/orders", admin, map[string]any{"customerId": anaID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, anaID, body["order"].(map[string]any)["customer_id"])
}

func TestAdminLoginHasItsOwnLockout(t *testing.T) {
	s := newServer(t, true)
	s.register("owner@example.com", "admin", "secret1")

	for i := 0; i < 5; i++ {
		w, _ := s.do("POST", "/api/auth/login", "", map[string]any{"username": "admin", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, _ := s.do("POST", "/api/auth/login", "", map[string]any{"username": "admin", "password": "secret1"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w, body := s.do("POST", "/api/auth/admin-login", "", map[string]any{"username": "admin", "password": "admin123"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])
}

type cartFrame struct {
	Type  string      `json:"type"`
	Event string      `json:"event"`
	Cart  models.Cart `json:"cart"`
}

func readFrame(t *testing.T, conn *websocket.Conn) cartFrame {
	t.Helper()
	var f cartFrame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestCartWebsocketPushesServerCart(t *testing.T) {
	s := newServer(t, true)
	p := s.seedProduct("Laptop", "10.00", 5)
	s.register("ana@example.com", "Ana", "secret1")
	s.register("ben@example.com", "Ben", "secret2")
	token, id := s.login("ana@example.com", "secret1")
	benToken, _ := s.login("ben@example.com", "secret2")

	srv := httptest.NewServer(s.router)
	defer srv.Close()
	wsURL := func(tok string) string {
		return "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/api/cart/%d/ws?token=%s", id, tok)
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(benToken), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(token), nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readFrame(t, conn)
	assert.Equal(t, "connected", first.Type)
	assert.Empty(t, first.Cart.Items)

	w, _ := s.do("POST", "/api/cart", token, map[string]any{"product_id": p.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	update := readFrame(t, conn)
	assert.Equal(t, "cart_updated", update.Type)
	assert.Equal(t, cache.CartEventUpdated, update.Event)
	require.Len(t, update.Cart.Items, 1)
	assert.Equal(t, p.ID, update.Cart.Items[0].ProductID)
	assert.Equal(t, 2, update.Cart.Items[0].Quantity)

	w, _ = s.do("DELETE", fmt.Sprintf("/api/cart/customer/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := readFrame(t, conn)
	assert.Equal(t, cache.CartEventCleared, cleared.Event)
	assert.Empty(t, cleared.Cart.Items)
}

func TestCartWebsocketNeedsRedis(t *testing.T) {
	s := newServer(t, false)
	s.register("ana@example.com", "Ana", "secret1")
	token, id := s.login("ana@example.com", "secret1")

	w, body := s.do("GET", fmt.Sprintf("/api/cart/%d/ws", id), token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "cart sync is not configured", body["error"])
}
