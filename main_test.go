package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shuttleshop/internal/cart"
	"shuttleshop/internal/config"
	"shuttleshop/internal/models"
)

type MockRabbitMQClient struct {
	mock.Mock
}

func (m *MockRabbitMQClient) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func (m *MockRabbitMQClient) PublishOrderCreated(messageBody map[string]interface{}) error {
	args := m.Called(messageBody)
	return args.Error(0)
}

func (m *MockRabbitMQClient) ConsumeOrderEvents(messageHandler func(amqp.Delivery) error) error {
	args := m.Called(messageHandler)
	return args.Error(0)
}

func (m *MockRabbitMQClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, autoMigrate(db))

	mockMQ := new(MockRabbitMQClient)
	mockMQ.On("PublishOrderCreated", mock.Anything).Return(nil)

	cfg := config.Config{JWTSecret: "test_jwt_secret", JWTTTL: time.Hour}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return buildApp(cfg, db, cart.NewMemoryStorage(), mockMQ, log), db
}

func jsonRequest(method, target string, body any, headers map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/health", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decodeBody(t, resp)["status"])
}

func TestServeReportsListenerFailure(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	errCh := serve(app, "not-a-port")

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener failure was never reported")
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/admin/orders", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesForbiddenForRegularUsers(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAndLogin(t, app, "", "regular@example.com")

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/admin/orders", nil, map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrderEndpointRejectsMissingFields(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAndLogin(t, app, "", "buyer@example.com")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{{"product_id": 1, "quantity": 1, "price": 100}},
		// shipping_address and customer_phone missing
	}, map[string]string{fiber.HeaderAuthorization: "Bearer " + token}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func registerAndLogin(t *testing.T, app *fiber.App, sessionID, email string) string {
	t.Helper()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email": email, "password": "strongpassword", "full_name": "Test Buyer",
	}, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	headers := map[string]string{}
	if sessionID != "" {
		headers["X-Session-ID"] = sessionID
	}
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email": email, "password": "strongpassword",
	}, headers))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestCheckoutFlow(t *testing.T) {
	app, db := newTestApp(t)
	session := "11111111-2222-3333-4444-555555555555"

	require.NoError(t, db.Create(&models.Product{
		Name: "Nanoflare 800", Price: 150000, Stock: 10, Active: true,
	}).Error)

	var productID uint = 1
	sessionHeaders := map[string]string{"X-Session-ID": session}

	t.Run("AddToCartAsGuest", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/cart/items", map[string]any{
			"product_id": productID, "quantity": 2,
		}, sessionHeaders))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(2), decodeBody(t, resp)["count"])
	})

	token := registerAndLogin(t, app, session, "smasher@example.com")
	authHeaders := map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
		"X-Session-ID":            session,
	}

	t.Run("GuestCartSurvivesLogin", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/cart", nil, sessionHeaders))
		require.NoError(t, err)
		assert.Equal(t, float64(2), decodeBody(t, resp)["count"])
	})

	t.Run("Checkout", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/checkout", map[string]any{
			"shipping_address": "12 Jalan Kenanga",
			"shipping_fee":     20000,
			"customer_phone":   "0812345678",
			"payment_method":   "cod",
		}, authHeaders))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotZero(t, body["orderId"])
		orderNumber, _ := body["order_number"].(string)
		assert.Regexp(t, `^ORD\d{8}\d{4}$`, orderNumber)
	})

	t.Run("CartClearedAfterCheckout", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/cart", nil, sessionHeaders))
		require.NoError(t, err)
		assert.Equal(t, float64(0), decodeBody(t, resp)["count"])
	})

	t.Run("OrderVisibleToOwner", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/orders", nil, authHeaders))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []models.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		resp.Body.Close()
		require.Len(t, list, 1)
		assert.Equal(t, models.OrderStatusPending, list[0].Status)
		require.Len(t, list[0].Items, 1)
		assert.Equal(t, float64(150000), list[0].Items[0].Price)
		assert.Equal(t, float64(320000), list[0].TotalAmount)
	})

	t.Run("EmptyCartCheckoutRejected", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/checkout", map[string]any{
			"shipping_address": "12 Jalan Kenanga",
			"customer_phone":   "0812345678",
		}, authHeaders))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPublicCatalogRoutes(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&models.Category{Name: "Rackets", Slug: "rackets"}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Astrox 99 Pro", Price: 200000, CategoryID: 1, Active: true,
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Hidden", Price: 100, CategoryID: 1, Active: false,
	}).Error)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/products", nil, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 1, "inactive products are hidden from the public listing")
	assert.Equal(t, "Astrox 99 Pro", list[0].Name)

	resp, err = app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", list[0].ID), nil, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
