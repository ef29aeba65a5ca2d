package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/menubook/internal/model"
)

// PostgresRestaurantRepo はPostgreSQLを使用したレストランリポジトリ。
type PostgresRestaurantRepo struct {
	db *sql.DB
}

// NewPostgresRestaurantRepo はPostgresRestaurantRepoを生成する。
func NewPostgresRestaurantRepo(db *sql.DB) *PostgresRestaurantRepo {
	return &PostgresRestaurantRepo{db: db}
}

// List は全レストランを作成日時の昇順で返す。
func (r *PostgresRestaurantRepo) List(ctx context.Context) ([]*model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, picture, user_id, created_at, updated_at
		 FROM restaurants
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []*model.Restaurant
	for rows.Next() {
		rest := &model.Restaurant{}
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Picture, &rest.UserID, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate restaurants: %w", err)
	}

	return restaurants, nil
}

// FindByID は指定IDのレストランを取得する。見つからない場合はnilを返す。
func (r *PostgresRestaurantRepo) FindByID(ctx context.Context, id string) (*model.Restaurant, error) {
	rest := &model.Restaurant{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, picture, user_id, created_at, updated_at
		 FROM restaurants WHERE id = $1`,
		id,
	).Scan(&rest.ID, &rest.Name, &rest.Picture, &rest.UserID, &rest.CreatedAt, &rest.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}

	return rest, nil
}

// Create はレストランを作成する。
func (r *PostgresRestaurantRepo) Create(ctx context.Context, restaurant *model.Restaurant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO restaurants (id, name, picture, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		restaurant.ID, restaurant.Name, restaurant.Picture, restaurant.UserID,
		restaurant.CreatedAt, restaurant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	return nil
}

// Update はレストラン情報を更新する。
func (r *PostgresRestaurantRepo) Update(ctx context.Context, restaurant *model.Restaurant) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE restaurants
		 SET name = $2, picture = $3, updated_at = $4
		 WHERE id = $1`,
		restaurant.ID, restaurant.Name, restaurant.Picture, restaurant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}
	return nil
}

// Delete は指定IDのレストランを削除する。
// 関連するmenu_itemsはCASCADE削除される。
func (r *PostgresRestaurantRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM restaurants WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	return nil
}

// compile-time interface check
var _ RestaurantRepository = (*PostgresRestaurantRepo)(nil)
