package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/menubook/internal/model"
)

func newTestRateLimiter(generalBurst, loginBurst int) *RateLimiter {
	return NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001),
		GeneralBurst:    generalBurst,
		LoginRate:       rate.Limit(0.001),
		LoginBurst:      loginBurst,
		CleanupInterval: time.Hour,
	})
}

func authenticatedRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/restaurant/new/", nil)
	session := &model.Session{ID: "session-1", UserID: userID, Name: "Taro"}
	return req.WithContext(ContextWithSession(req.Context(), session))
}

func TestGeneralMiddleware_UnderLimit_Allows(t *testing.T) {
	rl := newTestRateLimiter(2, 1)
	defer rl.Stop()

	called := 0
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authenticatedRequest("user-1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}
	if called != 2 {
		t.Errorf("handler called %d times, want 2", called)
	}
}

func TestGeneralMiddleware_OverLimit_Returns429WithRetryAfter(t *testing.T) {
	rl := newTestRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), authenticatedRequest("user-1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("user-1"))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

// レート制限はユーザーごとに独立している
func TestGeneralMiddleware_PerUserKeying(t *testing.T) {
	rl := newTestRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), authenticatedRequest("user-1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("user-2"))

	if rec.Code != http.StatusOK {
		t.Errorf("status for user-2 = %d, want %d", rec.Code, http.StatusOK)
	}
	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("GeneralLimiterCount = %d, want 2", rl.GeneralLimiterCount())
	}
}

func TestGeneralMiddleware_NoSession_Returns401(t *testing.T) {
	rl := newTestRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/restaurant/new/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginMiddleware_KeyedByRemoteIP(t *testing.T) {
	rl := newTestRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.LoginMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req1 := httptest.NewRequest(http.MethodPost, "/gconnect", nil)
	req1.RemoteAddr = "192.0.2.1:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req1)

	// 同一IPの2回目は拒否される
	req2 := httptest.NewRequest(http.MethodPost, "/gconnect", nil)
	req2.RemoteAddr = "192.0.2.1:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req2)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status for same IP = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// 別IPは独立して許可される
	req3 := httptest.NewRequest(http.MethodPost, "/gconnect", nil)
	req3.RemoteAddr = "192.0.2.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req3)
	if rec.Code != http.StatusOK {
		t.Errorf("status for another IP = %d, want %d", rec.Code, http.StatusOK)
	}

	if rl.LoginLimiterCount() != 2 {
		t.Errorf("LoginLimiterCount = %d, want 2", rl.LoginLimiterCount())
	}
}

func TestDefaultRateLimiterConfig_Values(t *testing.T) {
	cfg := DefaultRateLimiterConfig()

	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.LoginBurst != 10 {
		t.Errorf("LoginBurst = %d, want 10", cfg.LoginBurst)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want %v", cfg.CleanupInterval, 5*time.Minute)
	}
}
