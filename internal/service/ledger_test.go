package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository/memory"
)

func TestSettleCreditsAndCounts(t *testing.T) {
	l := NewLedger(memory.NewLedgerStore())
	ctx := context.Background()

	st, err := l.Settle(ctx, "u1", "ord-1", 0, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.PointsEarned)
	assert.Equal(t, int64(10), st.Account.Points)
	assert.Equal(t, 200.0, st.Account.TotalSpent)
	assert.Equal(t, 1, st.Account.Orders)
}

func TestSettleDebitsRedeemedPoints(t *testing.T) {
	repo := memory.NewLedgerStore()
	ctx := context.Background()
	require.NoError(t, repo.SaveAccount(ctx, "u1", entity.LoyaltyAccount{Points: 1000}))

	l := NewLedger(repo)
	st, err := l.Settle(ctx, "u1", "ord-1", 650, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(650), st.PointsUsed)
	assert.Equal(t, int64(0), st.PointsEarned)
	assert.Equal(t, int64(350), st.Account.Points)
}

func TestSettleClampsOverdraw(t *testing.T) {
	repo := memory.NewLedgerStore()
	ctx := context.Background()
	require.NoError(t, repo.SaveAccount(ctx, "u1", entity.LoyaltyAccount{Points: 40}))

	l := NewLedger(repo)
	st, err := l.Settle(ctx, "u1", "ord-1", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(40), st.PointsUsed)
	assert.GreaterOrEqual(t, st.Account.Points, int64(0))
}

func TestSettleIdempotentPerOrder(t *testing.T) {
	repo := memory.NewLedgerStore()
	ctx := context.Background()
	require.NoError(t, repo.SaveAccount(ctx, "u1", entity.LoyaltyAccount{Points: 100}))

	l := NewLedger(repo)
	first, err := l.Settle(ctx, "u1", "ord-1", 100, 65)
	require.NoError(t, err)

	// A replayed commit turn settles the same order again; the account
	// must not move a second time.
	second, err := l.Settle(ctx, "u1", "ord-1", 100, 65)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	acc, err := l.Account(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.Account, acc)
	assert.Equal(t, 1, acc.Orders)
	assert.Equal(t, 65.0, acc.TotalSpent)
}

func TestSettleSerializesPerAccount(t *testing.T) {
	l := NewLedger(memory.NewLedgerStore())
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Settle(ctx, "u1", fmt.Sprintf("ord-%d", i), 0, 20)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	acc, err := l.Account(ctx, "u1")
	require.NoError(t, err)
	// 20 spent earns exactly 1 point per order; no update may be lost.
	assert.Equal(t, int64(n), acc.Points)
	assert.Equal(t, n, acc.Orders)
	assert.Equal(t, float64(n*20), acc.TotalSpent)
}
