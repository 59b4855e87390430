package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minecrate/internal/model"
)

// ErrItemNotFound is returned when an inventory item does not exist.
var ErrItemNotFound = errors.New("inventory item not found")

// InventoryRepository handles won-item persistence. Each row is one owned
// item; rows are inserted on a win and deleted on sale or upgrade
// consumption.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository instance.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// Add inserts a won item.
func (r *InventoryRepository) Add(ctx context.Context, item *model.Item) error {
	const query = `
		INSERT INTO inventory_items (id, profile_id, name, rarity, class, base_value, current_value, won_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID, item.ProfileID, item.Name, item.Rarity, item.Class,
		item.BaseValue, item.CurrentValue, item.WonAt,
	)
	return err
}

// GetByID retrieves one item by id.
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*model.Item, error) {
	const query = `
		SELECT id, profile_id, name, rarity, class, base_value, current_value, won_at
		FROM inventory_items
		WHERE id = $1
	`

	var item model.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.ProfileID, &item.Name, &item.Rarity, &item.Class,
		&item.BaseValue, &item.CurrentValue, &item.WonAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Remove deletes one item, returning true if a row was removed. The item id
// is globally unique so profile scoping happens via GetByID in the service.
func (r *InventoryRepository) Remove(ctx context.Context, id string) (bool, error) {
	const query = `
		DELETE FROM inventory_items
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// ListByProfile returns a profile's items, newest win first.
func (r *InventoryRepository) ListByProfile(ctx context.Context, profileID string) ([]model.Item, error) {
	const query = `
		SELECT id, profile_id, name, rarity, class, base_value, current_value, won_at
		FROM inventory_items
		WHERE profile_id = $1
		ORDER BY won_at DESC
	`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(
			&item.ID, &item.ProfileID, &item.Name, &item.Rarity, &item.Class,
			&item.BaseValue, &item.CurrentValue, &item.WonAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountByProfile returns how many items a profile owns.
func (r *InventoryRepository) CountByProfile(ctx context.Context, profileID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM inventory_items WHERE profile_id = $1
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, profileID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
