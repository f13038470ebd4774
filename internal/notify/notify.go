// Package notify is the bridge to the human side of the storefront: it
// publishes committed orders to the admin channel, relays tracking codes
// back to buyers, and fans broadcasts out to past buyers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/messaging"
	"github.com/handystore/storefront-bot/internal/pricing"
)

// DefaultOrdersTopic is the admin channel topic for committed orders.
const DefaultOrdersTopic = "orders.committed"

// ErrRecipientUnreachable marks a recipient that cannot receive
// messages (e.g. has blocked the bot). Not retryable; the committed
// order record is unaffected.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Sender delivers one outbound message through the messaging transport.
type Sender interface {
	Send(ctx context.Context, msg entity.Outbound) error
}

// Bridge publishes order lifecycle events to the admin notification
// channel.
type Bridge struct {
	publisher messaging.Publisher
	topic     string
	now       func() time.Time
}

// NewBridge creates a Bridge publishing to topic (DefaultOrdersTopic if
// empty).
func NewBridge(publisher messaging.Publisher, topic string) *Bridge {
	if topic == "" {
		topic = DefaultOrdersTopic
	}
	return &Bridge{publisher: publisher, topic: topic, now: time.Now}
}

// OrderCommitted emits a committed order to the admin channel, keyed by
// buyer so one buyer's orders stay ordered.
func (b *Bridge) OrderCommitted(ctx context.Context, order entity.Order) error {
	event := entity.OrderCommitted{Order: order, CommittedAt: b.now()}
	if err := b.publisher.PublishEvent(ctx, b.topic, order.UserID, event); err != nil {
		return fmt.Errorf("failed to publish OrderCommitted: %w", err)
	}
	return nil
}

// TrackingAssigned emits a tracking assignment for operational audit.
func (b *Bridge) TrackingAssigned(ctx context.Context, ev entity.TrackingAssigned) error {
	if err := b.publisher.PublishEvent(ctx, b.topic, ev.UserID, ev); err != nil {
		return fmt.Errorf("failed to publish TrackingAssigned: %w", err)
	}
	return nil
}

// FormatAdminOrder renders the committed order the way the back office
// expects it.
func FormatAdminOrder(o entity.Order, methodName string) string {
	text := "🆕 НОВЫЙ ЗАКАЗ!\n\n" +
		fmt.Sprintf("📅 Дата: %s\n", o.CreatedAt.Format("2006-01-02 15:04:05")) +
		fmt.Sprintf("👤 Покупатель: %s\n", o.UserName) +
		fmt.Sprintf("🆔 ID: %s\n\n", o.UserID) +
		fmt.Sprintf("📦 Товар: %s x%d\n", o.ProductName, o.Quantity) +
		fmt.Sprintf("💰 Сумма заказа: %s р.\n", pricing.FormatAmount(o.FinalPrice))
	if o.PointsUsed > 0 {
		text += fmt.Sprintf("🎁 Оплачено баллами: %s р. (%d баллов)\n", pricing.FormatAmount(o.PointsValue), o.PointsUsed)
	}
	text += fmt.Sprintf("\n🚚 Способ доставки: %s\n\n📝 Данные для доставки:\n%s\n", methodName, o.UserData)
	if o.Comment != "" {
		text += fmt.Sprintf("\n💬 Комментарий: %s\n", o.Comment)
	}
	return text
}
