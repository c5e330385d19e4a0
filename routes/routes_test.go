package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowhen89/storefront-api/config"
	"github.com/shadowhen89/storefront-api/memstore"
	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/routes"
)

const (
	testJWTSecret = "test-secret"
	testAPIKey    = "test-api-key"
)

func newServer(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := memstore.New()
	require.NoError(t, err)

	r := gin.New()
	routes.SetupRoutes(r, s, config.Config{JWTSecret: testJWTSecret, AdminAPIKey: testAPIKey})
	return r, s
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	creds := gin.H{"username": username, "password": "hunter2"}

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	r, _ := newServer(t)

	token := registerAndLogin(t, r, "alice")

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/auth/register", "",
			gin.H{"username": "alice", "password": "other"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/auth/login", "",
			gin.H{"username": "alice", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token opens the user routes", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/user/", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/user/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCartCheckoutFlow(t *testing.T) {
	r, s := newServer(t)
	token := registerAndLogin(t, r, "alice")

	item := models.InventoryItem{Name: "mug", PriceCents: 1000, Stock: 5}
	require.NoError(t, s.CreateItem(&item))

	w := doJSON(t, r, http.MethodPut, "/user/", token, gin.H{
		"payment_info":     "visa-1111",
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("checkout with an empty cart fails", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/user/checkout", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w = doJSON(t, r, http.MethodPost, "/user/cart/", token,
		gin.H{"item_id": item.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("cart shows the line", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/user/cart/", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			TotalCents int64 `json:"total_cents"`
			Empty      bool  `json:"empty"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2000), resp.TotalCents)
		assert.False(t, resp.Empty)
	})

	t.Run("checkout places the order", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/user/checkout", token, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var order models.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, uint(0), order.OrderID)
		assert.Equal(t, "visa-1111", order.PaymentInfo)

		got, err := s.GetItem(item.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("history shows the order", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/user/orders", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var records []struct {
			OrderID    uint  `json:"order_id"`
			TotalCents int64 `json:"total_cents"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, int64(2000), records[0].TotalCents)
	})

	t.Run("overdrawing stock conflicts", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/user/cart/", token,
			gin.H{"item_id": item.ID, "quantity": 4}) // only 3 left
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodPost, "/user/checkout", token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminRoutes(t *testing.T) {
	r, _ := newServer(t)

	t.Run("api key is required", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/admin/items", "",
			gin.H{"name": "mug", "price_cents": 1000})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("item lifecycle", func(t *testing.T) {
		body := gin.H{"name": "mug", "price_cents": 1000, "stock": 5}
		req := httptest.NewRequest(http.MethodPost, "/admin/items", jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-KEY", testAPIKey)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var item models.InventoryItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		require.NotZero(t, item.ID)

		del := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/items/%d", item.ID), nil)
		del.Header.Set("X-API-KEY", testAPIKey)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, del)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func jsonBody(t *testing.T, body interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	return &buf
}
