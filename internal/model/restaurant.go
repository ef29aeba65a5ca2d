package model

import "time"

// Restaurant はレストランを表す。
// UserIDは所有者（作成したユーザー）を指し、更新・削除は所有者のみ許可される。
type Restaurant struct {
	ID        string
	Name      string
	Picture   string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItem はレストランのメニュー項目を表す。
// UserIDは作成時に親レストランの所有者からコピーされる。
// 不変条件: MenuItem.UserID == 親Restaurant.UserID。
// 構築時に保証するものであり、DB制約や事後補正は行わない。
type MenuItem struct {
	ID           string
	Name         string
	Price        string
	Description  string
	RestaurantID string
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
