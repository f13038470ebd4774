package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/pricing"
	"github.com/handystore/storefront-bot/internal/repository"
)

// Ledger orchestrates loyalty account mutations. Every load-mutate-save
// cycle for one account runs under that account's lock, so concurrent
// settlements can never drive a balance negative or lose an update.
// Operations on different accounts proceed in parallel.
type Ledger struct {
	repo repository.LedgerRepository

	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	settled map[string]Settlement
}

// NewLedger creates a Ledger over the given repository.
func NewLedger(repo repository.LedgerRepository) *Ledger {
	return &Ledger{
		repo:    repo,
		locks:   make(map[string]*sync.Mutex),
		settled: make(map[string]Settlement),
	}
}

func (l *Ledger) lock(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}

// Account returns the current loyalty account for userID, zero-valued
// for users who have never ordered.
func (l *Ledger) Account(ctx context.Context, userID string) (entity.LoyaltyAccount, error) {
	return l.repo.LoadAccount(ctx, userID)
}

// Settlement is the outcome of applying one committed order to an
// account.
type Settlement struct {
	Account      entity.LoyaltyAccount
	PointsUsed   int64
	PointsEarned int64
}

// Settle applies one committed order to the account in a single
// mutation: debits pointsUsed (clamped to the available balance, never
// rejected), credits the points earned from finalPrice, and bumps the
// lifetime counters. Settling the same orderID again returns the first
// settlement without touching the account, so a replayed commit turn
// cannot double-credit.
func (l *Ledger) Settle(ctx context.Context, userID, orderID string, pointsUsed int64, finalPrice float64) (Settlement, error) {
	m := l.lock(userID)
	m.Lock()
	defer m.Unlock()

	if prev, ok := l.settlement(orderID); ok {
		return prev, nil
	}

	acc, err := l.repo.LoadAccount(ctx, userID)
	if err != nil {
		return Settlement{}, fmt.Errorf("failed to load account: %w", err)
	}

	if pointsUsed < 0 {
		pointsUsed = 0
	}
	if pointsUsed > acc.Points {
		// The draft locked its redemption against an older balance;
		// clamp instead of overdrawing.
		pointsUsed = acc.Points
	}

	earned := pricing.PointsEarned(finalPrice)
	acc.Points = acc.Points - pointsUsed + earned
	acc.TotalSpent += finalPrice
	acc.Orders++

	if err := l.repo.SaveAccount(ctx, userID, acc); err != nil {
		return Settlement{}, fmt.Errorf("failed to save account: %w", err)
	}

	slog.Info("Loyalty account settled",
		"user_id", userID,
		"order_id", orderID,
		"points_used", pointsUsed,
		"points_earned", earned,
		"balance", acc.Points,
	)

	res := Settlement{Account: acc, PointsUsed: pointsUsed, PointsEarned: earned}
	l.recordSettlement(orderID, res)
	return res, nil
}

func (l *Ledger) settlement(orderID string) (Settlement, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.settled[orderID]
	return s, ok
}

func (l *Ledger) recordSettlement(orderID string, s Settlement) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settled[orderID] = s
}
