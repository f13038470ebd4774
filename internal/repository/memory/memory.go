// Package memory provides in-process implementations of the repository
// contracts, used in tests and single-node deployments without a
// database.
package memory

import (
	"context"
	"sync"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository"
)

type ledgerStore struct {
	mu       sync.RWMutex
	accounts map[string]entity.LoyaltyAccount
}

// NewLedgerStore creates an empty in-memory LedgerRepository.
func NewLedgerStore() repository.LedgerRepository {
	return &ledgerStore{accounts: make(map[string]entity.LoyaltyAccount)}
}

func (s *ledgerStore) LoadAccount(ctx context.Context, userID string) (entity.LoyaltyAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[userID]
	if !ok {
		return entity.LoyaltyAccount{UserID: userID}, nil
	}
	return acc, nil
}

func (s *ledgerStore) SaveAccount(ctx context.Context, userID string, acc entity.LoyaltyAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc.UserID = userID
	s.accounts[userID] = acc
	return nil
}

type orderStore struct {
	mu     sync.RWMutex
	orders map[string]entity.Order
}

// NewOrderStore creates an empty in-memory OrderRepository.
func NewOrderStore() repository.OrderRepository {
	return &orderStore{orders: make(map[string]entity.Order)}
}

func (s *orderStore) Append(ctx context.Context, order entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return nil
	}
	s.orders[order.ID] = order
	return nil
}

func (s *orderStore) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *orderStore) ListAll(ctx context.Context) ([]entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *orderStore) SetTracking(ctx context.Context, orderID, code string, status entity.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.TrackingCode = code
	o.Status = status
	s.orders[orderID] = o
	return nil
}
