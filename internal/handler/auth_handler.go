package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/menubook/internal/middleware"
	"github.com/hitoshi/menubook/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	AuthURL(state string) string
	BeginLogin(ctx context.Context, current *model.Session) (*model.Session, error)
	Connect(ctx context.Context, session *model.Session, state, code string) (*model.Session, error)
	Disconnect(ctx context.Context, session *model.Session) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	SessionSecret string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// Login はログインページ表示に対応する。
// セッションを用意してstateトークンを発行し、署名付きセッションCookieを設定する。
// ログインページの描画は外部（フロントエンド）の責務のため、
// 埋め込み用のstateと認証URLをJSONで返す。
// GET /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.SessionFromContext(r.Context())

	session, err := h.service.BeginLogin(r.Context(), current)
	if err != nil {
		slog.Error("failed to begin login", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    middleware.SignSessionID(h.config.SessionSecret, session.ID),
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"state":    session.State,
		"auth_url": h.service.AuthURL(session.State),
	})
}

// Connect はOAuthコールバック（postmessageフロー）を処理する。
// stateはクエリパラメータ、認可コードはリクエストボディそのものとして受け取る。
// POST /gconnect?state=xxx
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	state := r.URL.Query().Get("state")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの読み取りに失敗しました"))
		return
	}
	code := string(body)

	connected, err := h.service.Connect(r.Context(), session, state, code)
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ログインしました。",
		"name":    connected.Name,
		"email":   connected.Email,
		"picture": connected.Picture,
	})
}

// Disconnect はプロバイダーのトークンを失効させ、セッションのクレームを消去する。
// GET /gdisconnect
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	if err := h.service.Disconnect(r.Context(), session); err != nil {
		handleServiceError(w, err, "/")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ログアウトしました。",
	})
}
