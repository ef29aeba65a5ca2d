// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/menubook/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// noticeTemplate は所有者以外による変更操作の拒否を表示する通知ページ。
// 意図的にユーザーへ見せる拒否であり、エラーレスポンス（4xx/5xx）にはしない。
var noticeTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>お知らせ</title></head>
<body>
<p>{{.Message}}</p>
<p>{{.Action}}</p>
<p><a href="{{.BackURL}}">戻る</a></p>
</body>
</html>
`))

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeNotAuthorizedNotice は所有権拒否の通知ページをHTTP 200で書き込む。
func writeNotAuthorizedNotice(w http.ResponseWriter, apiErr *model.APIError, backURL string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	err := noticeTemplate.Execute(w, map[string]string{
		"Message": apiErr.Message,
		"Action":  apiErr.Action,
		"BackURL": backURL,
	})
	if err != nil {
		slog.Error("failed to render notice", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーを適切なレスポンスに変換する。
// 所有権拒否（NOT_AUTHORIZED）は通知ページとして、
// それ以外のAPIErrorはコードに応じたHTTPステータスのJSONとして返す。
// backURLは通知ページの戻り先。
func handleServiceError(w http.ResponseWriter, err error, backURL string) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == model.ErrCodeNotAuthorized {
			writeNotAuthorizedNotice(w, apiErr, backURL)
			return
		}
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// OAuthステージの失敗は重大度に応じて401/500、接続済みは200（真のエラーではない）。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidState,
		model.ErrCodeExchangeFailed,
		model.ErrCodeSubjectMismatch,
		model.ErrCodeAudienceMismatch,
		model.ErrCodeNotConnected,
		model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeProviderError:
		return http.StatusInternalServerError
	case model.ErrCodeAlreadyConnected:
		return http.StatusOK
	case model.ErrCodeRevokeFailed:
		return http.StatusBadRequest
	case model.ErrCodeRestaurantNotFound, model.ErrCodeMenuItemNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
