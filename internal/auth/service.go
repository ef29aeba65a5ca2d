// Package auth はOAuth認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/menubook/internal/model"
	"github.com/hitoshi/menubook/internal/repository"
)

// Token はトークンエンドポイントから取得したアクセストークンとsubjectの組。
// SubjectはIdPにおけるユーザーの安定した一意識別子（アプリのUser IDとは別物）。
type Token struct {
	AccessToken string
	Subject     string
}

// TokenInfo はトークン照会（introspection）エンドポイントのレスポンス。
type TokenInfo struct {
	// UserID はトークンが発行されたユーザーのsubject。
	UserID string `json:"user_id"`
	// IssuedTo はトークンの発行先クライアントID（audience）。
	IssuedTo string `json:"issued_to"`
	// Error はプロバイダー側でエラーがあった場合に設定される。
	Error string `json:"error"`
}

// UserInfo はuserinfoエンドポイントから取得したプロフィール情報。
type UserInfo struct {
	Name    string
	Email   string
	Picture string
}

// Provider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type Provider interface {
	// AuthURL はOAuth認証URLを生成する。
	AuthURL(state string) string
	// ExchangeCode は認可コードをアクセストークンに交換する。
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	// Introspect はアクセストークンの情報をtokeninfoエンドポイントで照会する。
	Introspect(ctx context.Context, accessToken string) (*TokenInfo, error)
	// FetchUserInfo はアクセストークンでプロフィール情報を取得する。
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
	// Revoke はアクセストークンを失効させる。
	Revoke(ctx context.Context, accessToken string) error
}

// MetricsRecorder はログイン結果のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure(code string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// ClientID はこのアプリケーションに登録されたOAuthクライアントID。
	// トークンのaudience検証に使用する。
	ClientID string
	// SessionMaxAge はセッション有効期間（秒）。
	SessionMaxAge int
}

// Service は認証に関するビジネスロジックを提供する。
// OAuthブリッジ（ログイン・ログアウトフロー）とセッションの発行・更新を担う。
type Service struct {
	provider    Provider
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	metrics     MetricsRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	provider Provider,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		provider:    provider,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		config:      config,
	}
}

// AuthURL はstateを埋め込んだOAuth認証URLを生成する。
func (s *Service) AuthURL(state string) string {
	return s.provider.AuthURL(state)
}

// BeginLogin はログインページ表示に対応する処理を行う。
// 既存セッションがあればstateトークンをローテーションし、
// なければstateのみを持つ空のセッションを新規作成する。
// 返されるセッションのStateをログインページに埋め込む。
func (s *Service) BeginLogin(ctx context.Context, current *model.Session) (*model.Session, error) {
	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	if current != nil {
		current.State = state
		if err := s.sessionRepo.Update(ctx, current); err != nil {
			return nil, fmt.Errorf("failed to rotate state: %w", err)
		}
		return current, nil
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		State:     state,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Connect はOAuthコールバックを処理し、セッションにアイデンティティクレームを書き込む。
// 処理は単一パスのステートマシンであり、最初の失敗分岐で終了する:
//
//	state検証 → コード交換 → トークン検証（error/subject/audience）
//	→ 接続済み判定 → プロフィール取得 → セッションへの書き込み
//
// 失敗は*model.APIErrorとして返され、ハンドラー層でHTTPステータスに変換される。
// 既に同一subjectで接続済みの場合はErrCodeAlreadyConnected（真のエラーではない）を返し、
// ストアへの書き込みは一切行わない。
func (s *Service) Connect(ctx context.Context, session *model.Session, state, code string) (*model.Session, error) {
	// 1. stateトークンの検証。ワンタイムであり、接続成功時に消去される。
	if session == nil || session.State == "" || state != session.State {
		s.recordLoginFailure(model.ErrCodeInvalidState)
		return nil, model.NewInvalidStateError()
	}

	// 2. 認可コードをアクセストークンに交換
	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		slog.Warn("oauth code exchange failed", slog.String("error", err.Error()))
		s.recordLoginFailure(model.ErrCodeExchangeFailed)
		return nil, model.NewExchangeFailedError()
	}

	// 3. tokeninfoエンドポイントでトークンを検証
	info, err := s.provider.Introspect(ctx, token.AccessToken)
	if err != nil {
		slog.Error("token introspection failed", slog.String("error", err.Error()))
		s.recordLoginFailure(model.ErrCodeProviderError)
		return nil, model.NewProviderError(err.Error())
	}
	if info.Error != "" {
		s.recordLoginFailure(model.ErrCodeProviderError)
		return nil, model.NewProviderError(info.Error)
	}
	if info.UserID != token.Subject {
		s.recordLoginFailure(model.ErrCodeSubjectMismatch)
		return nil, model.NewSubjectMismatchError()
	}
	if info.IssuedTo != s.config.ClientID {
		s.recordLoginFailure(model.ErrCodeAudienceMismatch)
		return nil, model.NewAudienceMismatchError()
	}

	// 4. 同一subjectで接続済みならショートサーキット。以降の書き込みは行わない。
	if session.AccessToken != "" && session.Subject == token.Subject {
		return session, model.NewAlreadyConnectedError()
	}

	// 5. プロフィール取得
	profile, err := s.provider.FetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		slog.Error("user info fetch failed", slog.String("error", err.Error()))
		s.recordLoginFailure(model.ErrCodeProviderError)
		return nil, model.NewProviderError(err.Error())
	}

	// 6. メールアドレスでユーザーを検索し、未登録なら自動作成
	user, err := s.userRepo.FindByEmail(ctx, profile.Email)
	if err != nil {
		s.recordLoginFailure(model.ErrCodeProviderError)
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		now := time.Now()
		user = &model.User{
			ID:        uuid.New().String(),
			Name:      profile.Name,
			Email:     profile.Email,
			Picture:   profile.Picture,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	} else {
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
		)
	}

	// 7. セッションにクレームを書き込む。stateはワンタイムのためここで消去する。
	// 消去後に同じstateでコールバックが再送された場合はINVALID_STATEになる。
	// ErrCodeAlreadyConnectedは再ログイン（stateの再発行）を経た再接続でのみ返る。
	session.UserID = user.ID
	session.AccessToken = token.AccessToken
	session.Subject = token.Subject
	session.Name = profile.Name
	session.Email = profile.Email
	session.Picture = profile.Picture
	session.State = ""

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}

	return session, nil
}

// Disconnect はプロバイダーのトークンを失効させ、セッションのクレームを消去する。
// アクセストークンがない場合はErrCodeNotConnected、
// revokeエンドポイントが失敗した場合はErrCodeRevokeFailedを返す。
// revoke失敗時はクレームを消去しない。
func (s *Service) Disconnect(ctx context.Context, session *model.Session) error {
	if session == nil || session.AccessToken == "" {
		return model.NewNotConnectedError()
	}

	if err := s.provider.Revoke(ctx, session.AccessToken); err != nil {
		slog.Warn("token revoke failed",
			slog.String("error", err.Error()),
		)
		return model.NewRevokeFailedError()
	}

	userID := session.UserID
	session.ClearClaims()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	slog.Info("user disconnected", slog.String("user_id", userID))
	return nil
}

// CleanupExpiredSessions は期限切れセッションを削除し、削除件数を返す。
// サーバープロセス内の定期スイープから呼ばれる。
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return n, nil
}

// recordLoginFailure はメトリクスが設定されている場合のみ失敗を記録する。
func (s *Service) recordLoginFailure(code string) {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure(code)
	}
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
