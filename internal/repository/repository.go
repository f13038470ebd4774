package repository

import (
	"context"
	"errors"

	"github.com/handystore/storefront-bot/internal/entity"
)

// ErrStoreUnavailable marks a failure of the backing store. The
// conversation layer degrades to an apology and keeps the user at the
// current state instead of crashing the session.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrOrderNotFound is returned when a tracking update targets an
// unknown order.
var ErrOrderNotFound = errors.New("order not found")

// LedgerRepository handles persistence for loyalty accounts. All
// operations replace or read the account wholesale; serialization of
// the load-mutate-save cycle is the caller's job.
type LedgerRepository interface {
	// LoadAccount returns the account for userID, zero-valued if absent.
	LoadAccount(ctx context.Context, userID string) (entity.LoyaltyAccount, error)
	// SaveAccount replaces the stored account wholesale.
	SaveAccount(ctx context.Context, userID string, acc entity.LoyaltyAccount) error
}

// OrderRepository handles persistence for committed orders.
type OrderRepository interface {
	// Append stores a committed order. A replay with an already stored
	// id is a no-op, keeping commit retries idempotent.
	Append(ctx context.Context, order entity.Order) error
	// ListByUser returns all orders for one buyer, unordered.
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	// ListAll returns every stored order, unordered.
	ListAll(ctx context.Context) ([]entity.Order, error)
	// SetTracking attaches a tracking code and status to an order.
	SetTracking(ctx context.Context, orderID, code string, status entity.OrderStatus) error
}
