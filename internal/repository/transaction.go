package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"minecrate/internal/model"
)

// TransactionRepository handles the balance-change ledger.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository instance.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create records one balance change.
func (r *TransactionRepository) Create(ctx context.Context, profileID string, amount int64, txType string, description *string) (*model.Transaction, error) {
	const query = `
		INSERT INTO transactions (profile_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, profile_id, amount, type, description, created_at
	`

	var tx model.Transaction
	err := r.pool.QueryRow(ctx, query, profileID, amount, txType, description).Scan(
		&tx.ID, &tx.ProfileID, &tx.Amount, &tx.Type, &tx.Description, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListByProfile returns a profile's most recent transactions.
func (r *TransactionRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT id, profile_id, amount, type, description, created_at
		FROM transactions
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*model.Transaction
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(&tx.ID, &tx.ProfileID, &tx.Amount, &tx.Type, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}

// NetGameProfit sums a profile's game transactions, a positive result
// meaning the player is ahead of the house.
func (r *TransactionRepository) NetGameProfit(ctx context.Context, profileID string) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE profile_id = $1 AND type = ANY($2)
	`
	var net int64
	if err := r.pool.QueryRow(ctx, query, profileID, model.GameTransactionTypes()).Scan(&net); err != nil {
		return 0, err
	}
	return net, nil
}
