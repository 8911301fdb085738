package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/merlin-gateway/internal/model"
	"github.com/hitoshi/merlin-gateway/internal/token"
)

// Verifier は資格情報検証のインターフェース。
// CredentialVerifierの部分集合として定義する。
type Verifier interface {
	Verify(ctx context.Context, email, password string) *model.Identity
}

// MetricsRecorder はログイン結果のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordLoginSuccess(provider string)
	RecordLoginFailure(reason string)
	RecordLoginLatency(d time.Duration)
}

// LoginResult はログイン成立時に発行されるセッションを表す。
type LoginResult struct {
	// Token はCookieに設定する署名済みセッショントークン。
	Token string
	// View はクライアントに返すセッションビュー。
	View *model.SessionView
}

// Service はログインフローのオーケストレーションを行う。
// 検証 → 正規化 → 封緘の順序はこのサービスの呼び出し構造で保証される。
type Service struct {
	verifier Verifier
	oauth    OAuthProvider // 未設定の場合はnil
	codec    *token.Codec
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。oauthはOAuth無効時nilでよい。
func NewService(verifier Verifier, oauth OAuthProvider, codec *token.Codec, metrics MetricsRecorder) *Service {
	return &Service{
		verifier: verifier,
		oauth:    oauth,
		codec:    codec,
		metrics:  metrics,
	}
}

// OAuthEnabled はOAuthプロバイダーが構成されているかどうかを返す。
func (s *Service) OAuthEnabled() bool {
	return s.oauth != nil
}

// GetLoginURL はOAuth認証URLを生成する。OAuth無効時は空文字を返す。
func (s *Service) GetLoginURL(state string) string {
	if s.oauth == nil {
		return ""
	}
	return s.oauth.GetLoginURL(state)
}

// LoginWithCredentials はパスワード認証によるログインを試行する。
// 認証コア内のあらゆる失敗はログに吸収され、nil（未ログイン）に畳み込まれる。
func (s *Service) LoginWithCredentials(ctx context.Context, email, password string) *LoginResult {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordLoginLatency(time.Since(start))
		}
	}()

	// 1. 資格情報の検証（失敗はnil）
	identity := s.verifier.Verify(ctx, email, password)
	if identity == nil {
		s.recordFailure("credentials_rejected")
		return nil
	}

	// 2. Identityをトークンペイロードへ正規化
	payload := ApplyLoginEvent(model.TokenPayload{}, CredentialLogin{Identity: identity})

	// 3. 封緘してセッションを発行
	sealed, err := s.codec.Seal(payload)
	if err != nil {
		slog.Error("failed to seal session token", slog.String("error", err.Error()))
		s.recordFailure("seal_failed")
		return nil
	}

	slog.Info("user logged in",
		slog.String("user_id", identity.ID),
		slog.String("provider", model.ProviderCredentials),
	)
	s.recordSuccess(model.ProviderCredentials)

	return &LoginResult{Token: sealed, View: token.View(&payload)}
}

// HandleGoogleCallback はOAuthコールバックを処理し、セッションを発行する。
// コード交換の失敗はフロー途中の異常としてエラーで返す。
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*LoginResult, error) {
	if s.oauth == nil {
		return nil, fmt.Errorf("oauth provider is not configured")
	}

	// 1. 認可コードを交換し、Identityを取得
	identity, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		s.recordFailure("oauth_exchange_failed")
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. 正規化
	payload := ApplyLoginEvent(model.TokenPayload{}, OAuthLogin{Identity: identity})
	if payload.UserID == "" {
		s.recordFailure("oauth_missing_subject")
		return nil, fmt.Errorf("oauth identity has no subject")
	}

	// 3. 封緘
	sealed, err := s.codec.Seal(payload)
	if err != nil {
		s.recordFailure("seal_failed")
		return nil, fmt.Errorf("failed to seal session token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", payload.UserID),
		slog.String("provider", model.ProviderGoogle),
	)
	s.recordSuccess(model.ProviderGoogle)

	return &LoginResult{Token: sealed, View: token.View(&payload)}, nil
}

func (s *Service) recordSuccess(provider string) {
	if s.metrics != nil {
		s.metrics.RecordLoginSuccess(provider)
	}
}

func (s *Service) recordFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure(reason)
	}
}
