package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handystore/storefront-bot/internal/catalog"
	"github.com/handystore/storefront-bot/internal/conversation"
	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/export"
	"github.com/handystore/storefront-bot/internal/messaging/channel"
	"github.com/handystore/storefront-bot/internal/notify"
	"github.com/handystore/storefront-bot/internal/repository"
	"github.com/handystore/storefront-bot/internal/repository/memory"
	"github.com/handystore/storefront-bot/internal/service"
)

type recordingSender struct {
	sent []entity.Outbound
}

func (s *recordingSender) Send(ctx context.Context, msg entity.Outbound) error {
	s.sent = append(s.sent, msg)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, repository.OrderRepository) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	orders := memory.NewOrderStore()
	sender := &recordingSender{}
	engine := conversation.NewEngine(conversation.Config{
		Catalog: cat,
		Ledger:  service.NewLedger(memory.NewLedgerStore()),
		Orders:  orders,
		Bridge:  notify.NewBridge(channel.NewBroker(watermill.NopLogger{}), ""),
		Sender:  sender,
	})

	mux := http.NewServeMux()
	h := NewHandler(engine, orders, export.NewExporter(orders), notify.NewBroadcaster(orders, sender))
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(EnableCORS(mux))
	t.Cleanup(srv.Close)
	return srv, orders
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleEvent(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/events", `{"user_id":"u1","text":"🛍 Каталог"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out entity.Outbound
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "u1", out.UserID)
	assert.Contains(t, out.Options, "📁 Наушники")
}

func TestHandleEventValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/events", `{"text":"привет"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/events", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrders(t *testing.T) {
	srv, orders := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "o1", UserID: "u1", FinalPrice: 65, Status: entity.StatusPending}))
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "o2", UserID: "u2", FinalPrice: 100, Status: entity.StatusPending}))

	resp, err := http.Get(srv.URL + "/api/orders")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []entity.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all, 2)

	resp, err = http.Get(srv.URL + "/api/orders?user_id=u1")
	require.NoError(t, err)
	defer resp.Body.Close()

	var mine []entity.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "o1", mine[0].ID)
}

func TestExportOrders(t *testing.T) {
	srv, orders := newTestServer(t)
	require.NoError(t, orders.Append(context.Background(), entity.Order{
		ID: "o1", UserID: "u1", ProductName: "AirPods Pro 2", Quantity: 1,
		FinalPrice: 65, Status: entity.StatusPending,
	}))

	resp, err := http.Get(srv.URL + "/api/orders/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "order_id")
	assert.Contains(t, string(body), "AirPods Pro 2")
}

func TestBroadcast(t *testing.T) {
	srv, orders := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "o1", UserID: "u1"}))
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "o2", UserID: "u1"}))
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "o3", UserID: "u2"}))

	resp := postJSON(t, srv.URL+"/api/broadcast", `{"text":"🎉 Новая акция!"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res notify.BroadcastResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 0, res.Failed)

	resp = postJSON(t, srv.URL+"/api/broadcast", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/orders", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
