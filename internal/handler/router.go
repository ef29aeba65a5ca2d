package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/menubook/internal/metrics"
	"github.com/hitoshi/menubook/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	SessionSecret     string
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.HTTPMetricsRecorder
	Gatherer          prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// カタログ
	CatalogService CatalogServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Session → Logging
//
// ロギングはセッションより内側に置く。リクエストログのuser_id属性は
// セッションミドルウェアが注入したコンテキストから読むため、この順序が前提。
// セッションミドルウェアは全ルートで任意注入として動作し、
// 変更系ルートのみRequireLoginとレート制限を追加で通す。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.SessionSecret))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.HTTPMetrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	restHandler := NewRestaurantHandler(deps.CatalogService)
	itemHandler := NewMenuItemHandler(deps.CatalogService)

	// --- 認証不要のルート ---

	r.Get("/", restHandler.Home)
	r.Get("/login", authHandler.Login)
	r.Get("/gdisconnect", authHandler.Disconnect)

	// OAuthコールバック。未認証リクエストが対象のためIPキーのレート制限を通す。
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/gconnect", authHandler.Connect)

	// 閲覧系（認証状態に関わらず同一のデータを返す）
	r.Get("/restaurants/{id}/", itemHandler.Menu)
	r.Get("/restaurants/{id}/menu/JSON", itemHandler.MenuJSON)
	r.Get("/restaurants/{id}/menu/{item}/JSON", itemHandler.ItemJSON)
	r.Get("/restaurants/{id}/{item}/view", itemHandler.View)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: RequireLogin → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// レストラン管理
		r.Get("/restaurant/new/", restHandler.NewForm)
		r.Post("/restaurant/new/", restHandler.Create)
		r.Get("/restaurant/{id}/edit", restHandler.EditForm)
		r.Post("/restaurant/{id}/edit", restHandler.Update)
		r.Get("/restaurant/{id}/delete", restHandler.DeleteForm)
		r.Post("/restaurant/{id}/delete", restHandler.Delete)

		// メニュー項目の追加は親レストランのパス配下
		r.Get("/restaurant/{id}/new/", itemHandler.NewForm)
		r.Post("/restaurant/{id}/new/", itemHandler.Create)

		// メニュー項目管理
		r.Get("/restaurants/{id}/{item}/edit", itemHandler.EditForm)
		r.Post("/restaurants/{id}/{item}/edit", itemHandler.Update)
		r.Get("/restaurants/{id}/{item}/delete", itemHandler.DeleteForm)
		r.Post("/restaurants/{id}/{item}/delete", itemHandler.Delete)
	})

	// --- 運用系 ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}
