// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/menubook/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// 初回ログイン時のユーザー自動作成の判定に使用する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// RestaurantRepository はレストランデータの永続化インターフェース。
type RestaurantRepository interface {
	// List は全レストランを作成日時の昇順で返す。
	List(ctx context.Context) ([]*model.Restaurant, error)

	// FindByID は指定IDのレストランを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)

	// Create はレストランを作成する。
	Create(ctx context.Context, restaurant *model.Restaurant) error

	// Update はレストラン情報を更新する。
	Update(ctx context.Context, restaurant *model.Restaurant) error

	// Delete は指定IDのレストランを削除する。
	// 関連するmenu_itemsはCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// MenuItemRepository はメニュー項目データの永続化インターフェース。
type MenuItemRepository interface {
	// ListByRestaurantID は指定レストランのメニュー項目を作成日時の昇順で返す。
	ListByRestaurantID(ctx context.Context, restaurantID string) ([]*model.MenuItem, error)

	// FindByID は指定IDのメニュー項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)

	// Create はメニュー項目を作成する。
	Create(ctx context.Context, item *model.MenuItem) error

	// Update はメニュー項目を更新する。
	Update(ctx context.Context, item *model.MenuItem) error

	// Delete は指定IDのメニュー項目を削除する。
	Delete(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// Update はセッションの全フィールドを上書き更新する。
	Update(ctx context.Context, session *model.Session) error

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
