package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a LedgerRepository backed by Postgres.
func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) LoadAccount(ctx context.Context, userID string) (entity.LoyaltyAccount, error) {
	acc := entity.LoyaltyAccount{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		"SELECT points, total_spent, orders FROM loyalty_accounts WHERE user_id = $1",
		userID,
	).Scan(&acc.Points, &acc.TotalSpent, &acc.Orders)
	if err == sql.ErrNoRows {
		return acc, nil
	}
	if err != nil {
		return acc, fmt.Errorf("%w: failed to load account %s: %v", repository.ErrStoreUnavailable, userID, err)
	}
	return acc, nil
}

func (r *ledgerRepository) SaveAccount(ctx context.Context, userID string, acc entity.LoyaltyAccount) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loyalty_accounts (user_id, points, total_spent, orders)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET points = $2, total_spent = $3, orders = $4`,
		userID, acc.Points, acc.TotalSpent, acc.Orders,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save account %s: %v", repository.ErrStoreUnavailable, userID, err)
	}
	return nil
}
