package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository"
)

// Broadcaster fans one message out to every distinct past buyer.
type Broadcaster struct {
	orders repository.OrderRepository
	sender Sender
}

// NewBroadcaster creates a Broadcaster over the order store.
func NewBroadcaster(orders repository.OrderRepository, sender Sender) *Broadcaster {
	return &Broadcaster{orders: orders, sender: sender}
}

// BroadcastResult counts the outcome of one fan-out.
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// SendAll delivers text to every distinct buyer in the order store. A
// failed recipient is logged and counted; it never aborts the batch.
func (b *Broadcaster) SendAll(ctx context.Context, text string) (BroadcastResult, error) {
	orders, err := b.orders.ListAll(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("failed to list orders for broadcast: %w", err)
	}

	seen := make(map[string]struct{})
	var recipients []string
	for _, o := range orders {
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		recipients = append(recipients, o.UserID)
	}
	sort.Strings(recipients)

	var res BroadcastResult
	for _, userID := range recipients {
		if err := b.sender.Send(ctx, entity.Outbound{UserID: userID, Text: text}); err != nil {
			res.Failed++
			slog.Error("Broadcast delivery failed", "user_id", userID, "err", err)
			continue
		}
		res.Sent++
	}

	slog.Info("Broadcast finished", "sent", res.Sent, "failed", res.Failed)
	return res, nil
}
