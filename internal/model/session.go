package model

import "time"

// Session はブラウザセッションに紐づくサーバーサイドのセッション状態を表す。
// Cookieには不透明なセッションIDのみを渡し、実体はsessionsテーブルに保持する。
//
// ライフサイクル:
//   - ログインページ表示時にStateのみを持つ空のセッションとして作成される
//   - OAuthコールバック成功時にアイデンティティクレームが書き込まれる
//   - ログアウト（revoke成功）時にクレームが全て消去される
type Session struct {
	ID string

	// UserID はアプリケーションのユーザーID。未ログインの間は空。
	UserID string

	// State はCSRF対策のワンタイムトークン。
	// ログインページ表示からコールバックまでの間のみ有効で、接続成功時に消去される。
	State string

	// OAuthプロバイダー由来のアイデンティティクレーム
	AccessToken string
	Subject     string
	Name        string
	Email       string
	Picture     string

	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsAuthenticated はセッションが認証済みかどうかを返す。
// ユーザー名が存在する場合のみ真となる。
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Name != ""
}

// CurrentUserID は認証済みユーザーのIDを返す。未認証の場合は空文字列。
func (s *Session) CurrentUserID() string {
	if s == nil {
		return ""
	}
	return s.UserID
}

// ClearClaims はセッションからアイデンティティクレームを全て消去する。
// ログアウトおよびrevoke成功時に呼ばれる。セッション行自体は残る。
func (s *Session) ClearClaims() {
	s.UserID = ""
	s.AccessToken = ""
	s.Subject = ""
	s.Name = ""
	s.Email = ""
	s.Picture = ""
}
