package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/menubook/internal/middleware"
	"github.com/hitoshi/menubook/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	authURLFn    func(state string) string
	beginLoginFn func(ctx context.Context, current *model.Session) (*model.Session, error)
	connectFn    func(ctx context.Context, session *model.Session, state, code string) (*model.Session, error)
	disconnectFn func(ctx context.Context, session *model.Session) error
}

func (m *mockAuthService) AuthURL(state string) string {
	if m.authURLFn != nil {
		return m.authURLFn(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *mockAuthService) BeginLogin(ctx context.Context, current *model.Session) (*model.Session, error) {
	if m.beginLoginFn != nil {
		return m.beginLoginFn(ctx, current)
	}
	return &model.Session{ID: "session-1", State: "STATE123"}, nil
}

func (m *mockAuthService) Connect(ctx context.Context, session *model.Session, state, code string) (*model.Session, error) {
	if m.connectFn != nil {
		return m.connectFn(ctx, session, state, code)
	}
	if session != nil {
		return session, nil
	}
	return &model.Session{ID: "session-1", Name: "Taro", Email: "taro@example.com"}, nil
}

func (m *mockAuthService) Disconnect(ctx context.Context, session *model.Session) error {
	if m.disconnectFn != nil {
		return m.disconnectFn(ctx, session)
	}
	return nil
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		SessionSecret: "test-session-secret-32bytes-long!",
		SessionMaxAge: 86400,
	}
}

// --- テスト ---

func TestLogin_SetsSignedCookieAndReturnsStateJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	id, ok := middleware.VerifySessionCookie("test-session-secret-32bytes-long!", cookie.Value)
	if !ok {
		t.Fatal("expected cookie value to carry a valid signature")
	}
	if id != "session-1" {
		t.Errorf("cookie session ID = %q, want %q", id, "session-1")
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["state"] != "STATE123" {
		t.Errorf("state = %q, want %q", body["state"], "STATE123")
	}
	if !strings.Contains(body["auth_url"], "STATE123") {
		t.Errorf("auth_url = %q, want to contain state", body["auth_url"])
	}
}

func TestLogin_ExistingSession_PassedToBeginLogin(t *testing.T) {
	existing := &model.Session{ID: "session-1", Name: "Taro"}

	var got *model.Session
	service := &mockAuthService{
		beginLoginFn: func(_ context.Context, current *model.Session) (*model.Session, error) {
			got = current
			return &model.Session{ID: "session-1", State: "NEWSTATE"}, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), existing))

	h.Login(httptest.NewRecorder(), req)

	if got != existing {
		t.Error("expected current session to be passed to BeginLogin")
	}
}

func TestLogin_ServiceError_Returns500(t *testing.T) {
	service := &mockAuthService{
		beginLoginFn: func(_ context.Context, _ *model.Session) (*model.Session, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

// stateはクエリパラメータ、認可コードはリクエストボディそのものとして渡る
func TestConnect_ReadsStateFromQueryAndCodeFromBody(t *testing.T) {
	session := &model.Session{ID: "session-1", State: "STATE123"}

	var gotState, gotCode string
	service := &mockAuthService{
		connectFn: func(_ context.Context, s *model.Session, state, code string) (*model.Session, error) {
			gotState, gotCode = state, code
			s.Name = "Taro"
			s.Email = "taro@example.com"
			return s, nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/gconnect?state=STATE123", strings.NewReader("auth-code-raw-body"))
	req = req.WithContext(middleware.ContextWithSession(req.Context(), session))

	rec := httptest.NewRecorder()
	h.Connect(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotState != "STATE123" {
		t.Errorf("state = %q, want %q", gotState, "STATE123")
	}
	if gotCode != "auth-code-raw-body" {
		t.Errorf("code = %q, want %q", gotCode, "auth-code-raw-body")
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["name"] != "Taro" {
		t.Errorf("name = %q, want %q", body["name"], "Taro")
	}
}

func TestConnect_InvalidState_Returns401(t *testing.T) {
	service := &mockAuthService{
		connectFn: func(_ context.Context, _ *model.Session, _, _ string) (*model.Session, error) {
			return nil, model.NewInvalidStateError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/gconnect?state=WRONG", strings.NewReader("code"))
	rec := httptest.NewRecorder()
	h.Connect(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["code"] != model.ErrCodeInvalidState {
		t.Errorf("error code = %q, want %q", body["code"], model.ErrCodeInvalidState)
	}
}

// 接続済みは真のエラーではなくHTTP 200で返る
func TestConnect_AlreadyConnected_Returns200(t *testing.T) {
	service := &mockAuthService{
		connectFn: func(_ context.Context, _ *model.Session, _, _ string) (*model.Session, error) {
			return nil, model.NewAlreadyConnectedError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/gconnect?state=STATE123", strings.NewReader("code"))
	rec := httptest.NewRecorder()
	h.Connect(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["code"] != model.ErrCodeAlreadyConnected {
		t.Errorf("error code = %q, want %q", body["code"], model.ErrCodeAlreadyConnected)
	}
}

func TestConnect_ProviderError_Returns500(t *testing.T) {
	service := &mockAuthService{
		connectFn: func(_ context.Context, _ *model.Session, _, _ string) (*model.Session, error) {
			return nil, model.NewProviderError("tokeninfo unreachable")
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/gconnect?state=STATE123", strings.NewReader("code"))
	rec := httptest.NewRecorder()
	h.Connect(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestDisconnect_Success_Returns200(t *testing.T) {
	session := &model.Session{ID: "session-1", Name: "Taro", AccessToken: "token-1"}

	var got *model.Session
	service := &mockAuthService{
		disconnectFn: func(_ context.Context, s *model.Session) error {
			got = s
			return nil
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/gdisconnect", nil)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), session))

	rec := httptest.NewRecorder()
	h.Disconnect(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got != session {
		t.Error("expected session to be passed to Disconnect")
	}
}

func TestDisconnect_NotConnected_Returns401(t *testing.T) {
	service := &mockAuthService{
		disconnectFn: func(_ context.Context, _ *model.Session) error {
			return model.NewNotConnectedError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	rec := httptest.NewRecorder()
	h.Disconnect(rec, httptest.NewRequest(http.MethodGet, "/gdisconnect", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestDisconnect_RevokeFailed_Returns400(t *testing.T) {
	service := &mockAuthService{
		disconnectFn: func(_ context.Context, _ *model.Session) error {
			return model.NewRevokeFailedError()
		},
	}
	h := NewAuthHandler(service, testAuthConfig())

	rec := httptest.NewRecorder()
	h.Disconnect(rec, httptest.NewRequest(http.MethodGet, "/gdisconnect", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
