// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 初回ログイン時にメールアドレスをキーとして自動作成され、
// アプリケーションからは更新・削除されない。
type User struct {
	ID        string
	Name      string
	Email     string
	Picture   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
