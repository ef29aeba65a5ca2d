package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/menubook/internal/middleware"
	"github.com/hitoshi/menubook/internal/model"
)

// menuItemJSON はメニュー項目のJSON表現。
type menuItemJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

func toMenuItemJSON(item *model.MenuItem) menuItemJSON {
	return menuItemJSON{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Description: item.Description,
	}
}

// MenuItemHandler はメニュー項目CRUDのHTTPハンドラー。
type MenuItemHandler struct {
	catalog CatalogServiceInterface
}

// NewMenuItemHandler はMenuItemHandlerを生成する。
func NewMenuItemHandler(catalog CatalogServiceInterface) *MenuItemHandler {
	return &MenuItemHandler{catalog: catalog}
}

// Menu はレストランとそのメニュー項目一覧を返す。認証不要。
// GET /restaurants/{id}/
func (h *MenuItemHandler) Menu(w http.ResponseWriter, r *http.Request) {
	rest, items, err := h.catalog.GetMenu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}

	list := make([]menuItemJSON, 0, len(items))
	for _, item := range items {
		list = append(list, toMenuItemJSON(item))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"restaurant": toRestaurantJSON(rest),
		"items":      list,
	})
}

// NewForm は新規メニュー項目作成フォームの初期データを返す。
// 親レストランの所有者のみ。所有者以外には通知ページを返す。
// GET /restaurant/{id}/new/
func (h *MenuItemHandler) NewForm(w http.ResponseWriter, r *http.Request) {
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
		handleServiceError(w, model.NewNotAuthorizedError(), "/restaurants/"+rest.ID+"/")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"restaurant_id":   rest.ID,
		"restaurant_name": rest.Name,
		"name":            "",
		"price":           "",
		"description":     "",
	})
}

// Create は新規メニュー項目を作成し、メニューページへリダイレクトする。
// 親レストランの所有者のみ実行できる。
// POST /restaurant/{id}/new/
func (h *MenuItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")

	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), "/restaurants/"+restaurantID+"/")
		return
	}

	_, err = h.catalog.CreateMenuItem(r.Context(), userID, restaurantID,
		r.FormValue("name"), r.FormValue("price"), r.FormValue("description"))
	if err != nil {
		handleServiceError(w, err, "/restaurants/"+restaurantID+"/")
		return
	}

	http.Redirect(w, r, "/restaurants/"+restaurantID+"/", http.StatusSeeOther)
}

// View は単一メニュー項目の詳細を返す。認証不要。
// GET /restaurants/{id}/{item}/view
func (h *MenuItemHandler) View(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetMenuItem(r.Context(), chi.URLParam(r, "item"))
	if err != nil {
		handleServiceError(w, err, "/restaurants/"+chi.URLParam(r, "id")+"/")
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemJSON(item))
}

// EditForm は編集フォームの初期データ（既存レコード）を返す。所有者のみ。
// GET /restaurants/{id}/{item}/edit
func (h *MenuItemHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	backURL := "/restaurants/" + chi.URLParam(r, "id") + "/"

	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), backURL)
		return
	}

	item, err := h.catalog.GetMenuItem(r.Context(), chi.URLParam(r, "item"))
	if err != nil {
		handleServiceError(w, err, backURL)
		return
	}
	if item.UserID != userID {
		handleServiceError(w, model.NewNotAuthorizedError(), backURL)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemJSON(item))
}

// Update はメニュー項目を更新し、メニューページへリダイレクトする。所有者のみ。
// POST /restaurants/{id}/{item}/edit
func (h *MenuItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	backURL := "/restaurants/" + restaurantID + "/"

	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), backURL)
		return
	}

	_, err = h.catalog.UpdateMenuItem(r.Context(), userID, chi.URLParam(r, "item"),
		r.FormValue("name"), r.FormValue("price"), r.FormValue("description"))
	if err != nil {
		handleServiceError(w, err, backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// DeleteForm は削除確認用に対象レコードを返す。所有者のみ。
// GET /restaurants/{id}/{item}/delete
func (h *MenuItemHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	backURL := "/restaurants/" + chi.URLParam(r, "id") + "/"

	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), backURL)
		return
	}

	item, err := h.catalog.GetMenuItem(r.Context(), chi.URLParam(r, "item"))
	if err != nil {
		handleServiceError(w, err, backURL)
		return
	}
	if item.UserID != userID {
		handleServiceError(w, model.NewNotAuthorizedError(), backURL)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemJSON(item))
}

// Delete はメニュー項目を削除し、メニューページへリダイレクトする。所有者のみ。
// POST /restaurants/{id}/{item}/delete
func (h *MenuItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	backURL := "/restaurants/" + restaurantID + "/"

	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, model.NewUnauthenticatedError(), backURL)
		return
	}

	if err := h.catalog.DeleteMenuItem(r.Context(), userID, chi.URLParam(r, "item")); err != nil {
		handleServiceError(w, err, backURL)
		return
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// MenuJSON はレストランのメニュー項目一覧をJSONで返す。
// レスポンスのキーは歴代クライアントとの互換のため "MenuItems" 固定。
// 認証状態に関わらず同一の内容を返す。
// GET /restaurants/{id}/menu/JSON
func (h *MenuItemHandler) MenuJSON(w http.ResponseWriter, r *http.Request) {
	_, items, err := h.catalog.GetMenu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}

	list := make([]menuItemJSON, 0, len(items))
	for _, item := range items {
		list = append(list, toMenuItemJSON(item))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"MenuItems": list,
	})
}

// ItemJSON は単一メニュー項目をJSONで返す。
// レスポンスのキーは歴代クライアントとの互換のため "Menu_Item" 固定。
// GET /restaurants/{id}/menu/{item}/JSON
func (h *MenuItemHandler) ItemJSON(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetMenuItem(r.Context(), chi.URLParam(r, "item"))
	if err != nil {
		handleServiceError(w, err, "/")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Menu_Item": toMenuItemJSON(item),
	})
}
