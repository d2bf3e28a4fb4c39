package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adapter "foodorder/internal/adapters/in/http"
	"foodorder/internal/core/application/ordering"
	"foodorder/internal/core/domain/model/agent"
	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	snapshot *ports.Snapshot
}

func (m *memoryStore) Load(_ context.Context) (*ports.Snapshot, error) {
	return m.snapshot, nil
}

func (m *memoryStore) Save(_ context.Context, snapshot *ports.Snapshot) error {
	m.snapshot = snapshot
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testAPI struct {
	e     *echo.Echo
	svc   *ordering.Service
	clock *fakeClock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	a1, err := agent.NewDeliveryAgent("DA1", "John")
	require.NoError(t, err)
	a2, err := agent.NewDeliveryAgent("DA2", "Jane")
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := ordering.NewService(
		catalog.Default(),
		[]*agent.DeliveryAgent{a1, a2},
		&memoryStore{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		ordering.WithClock(clock.Now),
	)
	require.NoError(t, err)

	e := echo.New()
	adapter.NewServer(svc, clock.Now).RegisterRoutes(e)
	return &testAPI{e: e, svc: svc, clock: clock}
}

// do performs a request against the in-process API. Empty username skips
// basic auth.
func (a *testAPI) do(t *testing.T, method, path, username, password, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if username != "" {
		req.SetBasicAuth(username, password)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) registerAlice(t *testing.T) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/customers", "", "",
		`{"username":"alice","password":"secret","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func (a *testAPI) placeOrder(t *testing.T, body string) adapter.OrderResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/orders", "alice", "secret", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp adapter.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", "", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestGetMenu(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/menu", "", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var items []adapter.MenuItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 5)
	assert.Equal(t, "Pizza", items[0].Name)
	assert.InDelta(t, 12.99, items[0].Price, 0.001)
}

func TestRegisterCustomer(t *testing.T) {
	t.Run("should register a new customer", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(t, http.MethodPost, "/api/v1/customers", "", "",
			`{"username":"alice","password":"secret","name":"Alice"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp adapter.CustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.Username)
		assert.True(t, resp.NotificationsEnabled)
	})

	t.Run("should reject a taken username with 409", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodPost, "/api/v1/customers", "", "",
			`{"username":"alice","password":"x","name":"X"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("should reject missing fields with 400", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(t, http.MethodPost, "/api/v1/customers", "", "",
			`{"username":"alice"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	t.Run("should reject requests without credentials", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(t, http.MethodGet, "/api/v1/orders", "", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject wrong customer credentials", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodGet, "/api/v1/orders", "alice", "wrong", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject customer credentials on manager routes", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodGet, "/api/v1/manager/report", "alice", "secret", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPlaceOrderEndpoint(t *testing.T) {
	t.Run("should place an order and echo its view", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		resp := api.placeOrder(t,
			`{"order_type":"Takeaway","items":[{"name":"Pizza","quantity":2},{"name":"Burger","quantity":1}],"special_instructions":"ring twice"}`)

		assert.Equal(t, "O-20250301120000-alice", resp.ID)
		assert.Equal(t, "Placed", resp.Status)
		assert.Equal(t, "Takeaway", resp.OrderType)
		assert.Equal(t, "ring twice", resp.SpecialInstructions)
		assert.Equal(t, "10 minutes, 0 seconds", resp.TimeLeft)
	})

	t.Run("should reject an unknown order type", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodPost, "/api/v1/orders", "alice", "secret",
			`{"order_type":"Drone","items":[{"name":"Pizza","quantity":1}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an unknown promo code", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodPost, "/api/v1/orders", "alice", "secret",
			`{"order_type":"Takeaway","items":[{"name":"Pizza","quantity":1}],"promo_code":"BOGUS"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderLifecycleEndpoints(t *testing.T) {
	t.Run("should show assignment progress through the authenticated reconcile", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		placed := api.placeOrder(t, `{"order_type":"Home Delivery","items":[{"name":"Pizza","quantity":1}]}`)
		require.Equal(t, "Placed", placed.Status)

		// Authenticating again after the lead time runs a reconcile pass, so
		// the listing shows the order picked up by an agent.
		api.clock.Advance(3 * time.Minute)
		rec := api.do(t, http.MethodGet, "/api/v1/orders", "alice", "secret", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var orders []adapter.OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "Delivering", orders[0].Status)
	})

	t.Run("should cancel a placed order", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		placed := api.placeOrder(t, `{"order_type":"Takeaway","items":[{"name":"Salad","quantity":1}]}`)

		rec := api.do(t, http.MethodPost, "/api/v1/orders/"+placed.ID+"/cancel", "alice", "secret", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("should refuse rating an undelivered order with 409", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		placed := api.placeOrder(t, `{"order_type":"Takeaway","items":[{"name":"Salad","quantity":1}]}`)

		rec := api.do(t, http.MethodPost, "/api/v1/orders/"+placed.ID+"/rating", "alice", "secret",
			`{"rating":5,"feedback":"great"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("should mark a ready takeaway order received", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		placed := api.placeOrder(t, `{"order_type":"Takeaway","items":[{"name":"Sushi","quantity":1}]}`)

		api.clock.Advance(11 * time.Minute)
		rec := api.do(t, http.MethodPost, "/api/v1/orders/"+placed.ID+"/received", "alice", "secret", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)

		details := api.do(t, http.MethodGet, "/api/v1/orders/"+placed.ID, "alice", "secret", "")
		require.Equal(t, http.StatusOK, details.Code)
		var resp adapter.OrderDetailsResponse
		require.NoError(t, json.Unmarshal(details.Body.Bytes(), &resp))
		assert.Equal(t, "Picked Up", resp.Status)
		assert.Equal(t, "Order has been picked up.", resp.TimeLeft)
	})

	t.Run("should reorder a previous order", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		placed := api.placeOrder(t, `{"order_type":"Takeaway","items":[{"name":"Pasta","quantity":2}],"discount":20}`)

		api.clock.Advance(1 * time.Minute)
		rec := api.do(t, http.MethodPost, "/api/v1/orders/"+placed.ID+"/reorder", "alice", "secret", "")

		require.Equal(t, http.StatusCreated, rec.Code)
		var repeat adapter.OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &repeat))
		assert.NotEqual(t, placed.ID, repeat.ID)
		assert.Equal(t, placed.Items, repeat.Items)
		assert.Zero(t, repeat.Discount)
	})

	t.Run("should 404 on an unknown order id", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodGet, "/api/v1/orders/O-unknown", "alice", "secret", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfileEndpoints(t *testing.T) {
	t.Run("should update profile fields", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodPut, "/api/v1/profile", "alice", "secret",
			`{"name":"Alice B.","address":"1 Main St"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp adapter.CustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Alice B.", resp.Name)
		assert.Equal(t, "1 Main St", resp.Address)
	})

	t.Run("should toggle notification preferences", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)

		rec := api.do(t, http.MethodPut, "/api/v1/profile/notifications", "alice", "secret",
			`{"enabled":false}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp adapter.CustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.NotificationsEnabled)
	})
}

func TestManagerEndpoints(t *testing.T) {
	t.Run("should render the restaurant report", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		api.placeOrder(t, `{"order_type":"Takeaway","items":[{"name":"Pizza","quantity":2},{"name":"Burger","quantity":1}]}`)

		rec := api.do(t, http.MethodGet, "/api/v1/manager/report", "manager", "manager123", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp adapter.RestaurantReportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.TotalOrders)
		assert.Equal(t, 1, resp.TakeawayOrders)
		assert.InDelta(t, 34.97, resp.Revenue, 0.001)
		assert.Equal(t, "0:10:00", resp.AverageLeadTime)
		assert.Contains(t, resp.Text, "Revenue: $34.97")
	})

	t.Run("should render the popular items ranking", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		api.placeOrder(t, `{"order_type":"Takeaway","items":[{"name":"Pizza","quantity":2},{"name":"Burger","quantity":1}]}`)

		rec := api.do(t, http.MethodGet, "/api/v1/manager/popular-items", "manager", "manager123", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp adapter.PopularItemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.MostPopular)
		assert.Equal(t, "Pizza", resp.MostPopular.Name)
		assert.Contains(t, resp.Text, "Most Popular Item: Pizza with 2 orders")
	})

	t.Run("should list agents with their load", func(t *testing.T) {
		api := newTestAPI(t)
		api.registerAlice(t)
		placed := api.placeOrder(t, `{"order_type":"Home Delivery","items":[{"name":"Pizza","quantity":1}]}`)
		api.clock.Advance(3 * time.Minute)
		_, err := api.svc.CheckUnassignedOrders(context.Background())
		require.NoError(t, err)

		rec := api.do(t, http.MethodGet, "/api/v1/manager/agents", "manager", "manager123", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var agents []adapter.AgentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
		require.Len(t, agents, 2)
		assert.False(t, agents[0].Available)
		require.NotNil(t, agents[0].CurrentOrderID)
		assert.Equal(t, placed.ID, *agents[0].CurrentOrderID)
		assert.True(t, agents[1].Available)
	})
}
