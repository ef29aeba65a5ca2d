package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/menubook/internal/middleware"
	"github.com/hitoshi/menubook/internal/model"
)

// CatalogServiceInterface はカタログ系ハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	ListRestaurants(ctx context.Context) ([]*model.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error)
	CreateRestaurant(ctx context.Context, userID, name, picture string) (*model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, userID, id, name, picture string) (*model.Restaurant, error)
	DeleteRestaurant(ctx context.Context, userID, id string) error
	GetMenu(ctx context.Context, restaurantID string) (*model.Restaurant, []*model.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error)
	CreateMenuItem(ctx context.Context, userID, restaurantID, name, price, description string) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, userID, id, name, price, description string) (*model.MenuItem, error)
	DeleteMenuItem(ctx context.Context, userID, id string) error
}

// restaurantJSON はレストランのJSON表現。
type restaurantJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	UserID  string `json:"user_id"`
}

func toRestaurantJSON(r *model.Restaurant) restaurantJSON {
	return restaurantJSON{
		ID:      r.ID,
		Name:    r.Name,
		Picture: r.Picture,
		UserID:  r.UserID,
	}
}

// RestaurantHandler はレストランCRUDのHTTPハンドラー。
type RestaurantHandler struct {
	catalog CatalogServiceInterface
}

// NewRestaurantHandler はRestaurantHandlerを生成する。
func NewRestaurantHandler(catalog CatalogServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{catalog: catalog}
}

// Home はレストラン一覧を返す。データは認証状態に関わらず同一で、
// 認証済みの場合のみ閲覧者情報（viewer）を付加する。
// GET /
func (h *RestaurantHandler) Home(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.catalog.ListRestaurants(r.Context())
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}

	list := make([]restaurantJSON, 0, len(restaurants))
	for _, rest := range restaurants {
		list = append(list, toRestaurantJSON(rest))
	}

	resp := map[string]any{
		"restaurants": list,
	}

	if session, err := middleware.SessionFromContext(r.Context()); err == nil && session.IsAuthenticated() {
		resp["viewer"] = map[string]string{
			"name":    session.Name,
			"email":   session.Email,
			"picture": session.Picture,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// NewForm は新規レストラン作成フォームの初期データを返す。
// GET /restaurant/new/
func (h *RestaurantHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "",
		"picture": "",
	})
}

// Create は新規レストランを作成し、一覧へリダイレクトする。
// POST /restaurant/new/
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), "/")
		return
	}

	if _, err := h.catalog.CreateRestaurant(r.Context(), userID, r.FormValue("name"), r.FormValue("picture")); err != nil {
		handleServiceError(w, err, "/")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditForm は編集フォームの初期データ（既存レコード）を返す。所有者のみ。
// 所有者以外にはフォームを表示する前に通知ページを返す。
// GET /restaurant/{id}/edit
func (h *RestaurantHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), "/")
		return
	}

	rest, err := h.catalog.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}
	if rest.UserID != userID {
		handleServiceError(w, model.NewNotAuthorizedError(), "/")
		return
	}

	writeJSON(w, http.StatusOK, toRestaurantJSON(rest))
}

// Update はレストラン情報を更新し、一覧へリダイレクトする。所有者のみ。
// POST /restaurant/{id}/edit
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), "/")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.catalog.UpdateRestaurant(r.Context(), userID, id, r.FormValue("name"), r.FormValue("picture")); err != nil {
		handleServiceError(w, err, "/")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteForm は削除確認用に対象レコードを返す。所有者のみ。
// GET /restaurant/{id}/delete
func (h *RestaurantHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), "/")
		return
	}

	rest, err := h.catalog.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}
	if rest.UserID != userID {
		handleServiceError(w, model.NewNotAuthorizedError(), "/")
		return
	}

	writeJSON(w, http.StatusOK, toRestaurantJSON(rest))
}

// Delete はレストランを削除し、一覧へリダイレクトする。所有者のみ。
// 配下のメニュー項目も併せて削除される。
// POST /restaurant/{id}/delete
func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), "/")
		return
	}

	if err := h.catalog.DeleteRestaurant(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err, "/")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
