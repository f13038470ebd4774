package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository"
)

func TestLedgerStoreDefaultsToZeroAccount(t *testing.T) {
	s := NewLedgerStore()
	acc, err := s.LoadAccount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", acc.UserID)
	assert.Zero(t, acc.Points)
	assert.Zero(t, acc.TotalSpent)
	assert.Zero(t, acc.Orders)
}

func TestLedgerStoreRoundTrip(t *testing.T) {
	s := NewLedgerStore()
	ctx := context.Background()

	in := entity.LoyaltyAccount{Points: 120, TotalSpent: 400, Orders: 3}
	require.NoError(t, s.SaveAccount(ctx, "u1", in))

	out, err := s.LoadAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), out.Points)
	assert.Equal(t, 400.0, out.TotalSpent)
	assert.Equal(t, 3, out.Orders)
	assert.Equal(t, "u1", out.UserID)
}

func TestOrderStoreAppendIsIdempotent(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()

	o := entity.Order{ID: "ord-1", UserID: "u1", FinalPrice: 65, Status: entity.StatusPending, CreatedAt: time.Now()}
	require.NoError(t, s.Append(ctx, o))

	// Replay with the same id must not duplicate or overwrite.
	o2 := o
	o2.FinalPrice = 999
	require.NoError(t, s.Append(ctx, o2))

	orders, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 65.0, orders[0].FinalPrice)
}

func TestOrderStoreListByUser(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, entity.Order{ID: "a", UserID: "u1"}))
	require.NoError(t, s.Append(ctx, entity.Order{ID: "b", UserID: "u2"}))
	require.NoError(t, s.Append(ctx, entity.Order{ID: "c", UserID: "u1"}))

	orders, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderStoreSetTracking(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, entity.Order{ID: "a", UserID: "u1", Status: entity.StatusPending}))
	require.NoError(t, s.SetTracking(ctx, "a", "BY123456", entity.StatusShipped))

	orders, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "BY123456", orders[0].TrackingCode)
	assert.Equal(t, entity.StatusShipped, orders[0].Status)

	err = s.SetTracking(ctx, "missing", "X", entity.StatusShipped)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}
