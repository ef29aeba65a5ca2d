package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/menubook/internal/model"
)

// PostgresMenuItemRepo はPostgreSQLを使用したメニュー項目リポジトリ。
type PostgresMenuItemRepo struct {
	db *sql.DB
}

// NewPostgresMenuItemRepo はPostgresMenuItemRepoを生成する。
func NewPostgresMenuItemRepo(db *sql.DB) *PostgresMenuItemRepo {
	return &PostgresMenuItemRepo{db: db}
}

// ListByRestaurantID は指定レストランのメニュー項目を作成日時の昇順で返す。
func (r *PostgresMenuItemRepo) ListByRestaurantID(ctx context.Context, restaurantID string) ([]*model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, description, restaurant_id, user_id, created_at, updated_at
		 FROM menu_items
		 WHERE restaurant_id = $1
		 ORDER BY created_at ASC`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*model.MenuItem
	for rows.Next() {
		item := &model.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description,
			&item.RestaurantID, &item.UserID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}

	return items, nil
}

// FindByID は指定IDのメニュー項目を取得する。見つからない場合はnilを返す。
func (r *PostgresMenuItemRepo) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	item := &model.MenuItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, description, restaurant_id, user_id, created_at, updated_at
		 FROM menu_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Description,
		&item.RestaurantID, &item.UserID, &item.CreatedAt, &item.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu item by ID: %w", err)
	}

	return item, nil
}

// Create はメニュー項目を作成する。
func (r *PostgresMenuItemRepo) Create(ctx context.Context, item *model.MenuItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, name, price, description, restaurant_id, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.Name, item.Price, item.Description,
		item.RestaurantID, item.UserID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// Update はメニュー項目を更新する。
func (r *PostgresMenuItemRepo) Update(ctx context.Context, item *model.MenuItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE menu_items
		 SET name = $2, price = $3, description = $4, updated_at = $5
		 WHERE id = $1`,
		item.ID, item.Name, item.Price, item.Description, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

// Delete は指定IDのメニュー項目を削除する。
func (r *PostgresMenuItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

// compile-time interface check
var _ MenuItemRepository = (*PostgresMenuItemRepo)(nil)
