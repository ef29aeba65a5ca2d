// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, catalog, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	// OAuthフロー
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeExchangeFailed   = "EXCHANGE_FAILED"
	ErrCodeProviderError    = "PROVIDER_ERROR"
	ErrCodeSubjectMismatch  = "SUBJECT_MISMATCH"
	ErrCodeAudienceMismatch = "AUDIENCE_MISMATCH"
	ErrCodeAlreadyConnected = "ALREADY_CONNECTED"
	ErrCodeNotConnected     = "NOT_CONNECTED"
	ErrCodeRevokeFailed     = "REVOKE_FAILED"

	// 認可・CRUD
	ErrCodeNotAuthorized      = "NOT_AUTHORIZED"
	ErrCodeRestaurantNotFound = "RESTAURANT_NOT_FOUND"
	ErrCodeMenuItemNotFound   = "MENU_ITEM_NOT_FOUND"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
)

// NewInvalidStateError はstateトークン不一致エラーを生成する。
func NewInvalidStateError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidState,
		Message:  "stateパラメータが一致しません。",
		Category: "auth",
		Action:   "ログインページからやり直してください。",
	}
}

// NewExchangeFailedError は認可コード交換失敗エラーを生成する。
func NewExchangeFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeExchangeFailed,
		Message:  "認可コードのトークン交換に失敗しました。",
		Category: "auth",
		Action:   "ログインページからやり直してください。",
	}
}

// NewProviderError はプロバイダー側エラーを生成する。
// tokeninfoエンドポイントが返したエラー内容をそのまま含める。
func NewProviderError(providerMessage string) *APIError {
	return &APIError{
		Code:     ErrCodeProviderError,
		Message:  fmt.Sprintf("認証プロバイダーがエラーを返しました: %s", providerMessage),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewSubjectMismatchError はトークンのsubとtokeninfoのuser_id不一致エラーを生成する。
func NewSubjectMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeSubjectMismatch,
		Message:  "トークンのユーザーIDが一致しません。",
		Category: "auth",
		Action:   "ログインページからやり直してください。",
	}
}

// NewAudienceMismatchError はトークンのissued_toとクライアントID不一致エラーを生成する。
func NewAudienceMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeAudienceMismatch,
		Message:  "トークンのクライアントIDがこのアプリケーションと一致しません。",
		Category: "auth",
		Action:   "ログインページからやり直してください。",
	}
}

// NewAlreadyConnectedError は同一ユーザーが接続済みであることを示す。
// 真のエラーではなく、HTTP 200で返される。
func NewAlreadyConnectedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyConnected,
		Message:  "現在のユーザーは既にログイン済みです。",
		Category: "auth",
		Action:   "",
	}
}

// NewNotConnectedError は未接続状態でのログアウト要求エラーを生成する。
func NewNotConnectedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotConnected,
		Message:  "現在のユーザーは接続されていません。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewRevokeFailedError はトークン失効の失敗エラーを生成する。
func NewRevokeFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeRevokeFailed,
		Message:  "トークンの失効に失敗しました。",
		Category: "auth",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewNotAuthorizedError は所有者以外による変更操作の拒否を生成する。
// ハンドラー層でHTMLの通知として表示される（5xxにはしない）。
func NewNotAuthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthorized,
		Message:  "この操作を行う権限がありません。自分で作成したレストランのみ編集できます。",
		Category: "auth",
		Action:   "自分のレストランを作成してください。",
	}
}

// NewRestaurantNotFoundError はレストラン未検出エラーを生成する。
func NewRestaurantNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeRestaurantNotFound,
		Message:  fmt.Sprintf("指定されたレストランが見つかりません: %s", id),
		Category: "catalog",
		Action:   "レストランIDを確認してください。",
	}
}

// NewMenuItemNotFoundError はメニュー項目未検出エラーを生成する。
func NewMenuItemNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeMenuItemNotFound,
		Message:  fmt.Sprintf("指定されたメニュー項目が見つかりません: %s", id),
		Category: "catalog",
		Action:   "メニュー項目IDを確認してください。",
	}
}

// NewUnauthenticatedError は未認証エラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}
