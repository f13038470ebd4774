package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/messaging/channel"
	"github.com/handystore/storefront-bot/internal/repository/memory"
)

type recordingSender struct {
	sent []entity.Outbound
	fail map[string]error
}

func (s *recordingSender) Send(ctx context.Context, msg entity.Outbound) error {
	if err, ok := s.fail[msg.UserID]; ok {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestBridgePublishesOrderCommitted(t *testing.T) {
	broker := channel.NewBroker(watermill.NopLogger{})
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan entity.OrderCommitted, 1)
	go func() {
		_ = broker.Consume(ctx, DefaultOrdersTopic, func(ctx context.Context, payload []byte) error {
			var ev entity.OrderCommitted
			if err := json.Unmarshal(payload, &ev); err != nil {
				return err
			}
			received <- ev
			return nil
		})
	}()

	bridge := NewBridge(broker, "")
	order := entity.Order{ID: "ord-1", UserID: "u1", ProductName: "AirPods Pro 2", FinalPrice: 65}
	require.NoError(t, bridge.OrderCommitted(ctx, order))

	select {
	case ev := <-received:
		assert.Equal(t, "ord-1", ev.Order.ID)
		assert.Equal(t, 65.0, ev.Order.FinalPrice)
	case <-time.After(2 * time.Second):
		t.Fatal("OrderCommitted event not received")
	}
}

func TestBroadcastIsolatesFailures(t *testing.T) {
	orders := memory.NewOrderStore()
	ctx := context.Background()
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "a", UserID: "u1"}))
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "b", UserID: "u2"}))
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "c", UserID: "u2"}))
	require.NoError(t, orders.Append(ctx, entity.Order{ID: "d", UserID: "u3"}))

	sender := &recordingSender{fail: map[string]error{"u2": ErrRecipientUnreachable}}
	res, err := NewBroadcaster(orders, sender).SendAll(ctx, "акция")
	require.NoError(t, err)

	// One failing recipient must not abort the rest, and each distinct
	// buyer is messaged once.
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, sender.sent, 2)
}

func TestFormatAdminOrder(t *testing.T) {
	o := entity.Order{
		ID: "ord-1", UserID: "u1", UserName: "Иван",
		ProductName: "AirPods Pro 2", Quantity: 2,
		FinalPrice: 120, PointsUsed: 100, PointsValue: 10,
		UserData:  "Имя: Иван\nТелефон: +375291234567",
		Comment:   "после 18:00",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	text := FormatAdminOrder(o, "🚐 Маршруткой")
	assert.Contains(t, text, "AirPods Pro 2 x2")
	assert.Contains(t, text, "120 р.")
	assert.Contains(t, text, "100 баллов")
	assert.Contains(t, text, "🚐 Маршруткой")
	assert.Contains(t, text, "+375291234567")
	assert.Contains(t, text, "после 18:00")
}

func TestBroadcastPropagatesStoreFailure(t *testing.T) {
	b := NewBroadcaster(failingOrders{}, &recordingSender{})
	_, err := b.SendAll(context.Background(), "x")
	assert.Error(t, err)
}

type failingOrders struct{}

func (failingOrders) Append(ctx context.Context, o entity.Order) error { return errors.New("down") }
func (failingOrders) ListByUser(ctx context.Context, u string) ([]entity.Order, error) {
	return nil, errors.New("down")
}
func (failingOrders) ListAll(ctx context.Context) ([]entity.Order, error) {
	return nil, errors.New("down")
}
func (failingOrders) SetTracking(ctx context.Context, id, code string, s entity.OrderStatus) error {
	return errors.New("down")
}
