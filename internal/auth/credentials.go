// Package auth は資格情報検証、OAuth認証フロー、セッション発行を提供する。
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// CredentialVerifier はメールアドレスとパスワードをバックエンドの
// ログインエンドポイントと交換し、検証済みIdentityを得る。
// 検証失敗と通信障害は呼び出し元からは区別できない（どちらもnil）。
type CredentialVerifier struct {
	baseURL string
	client  *http.Client
}

// NewCredentialVerifier はCredentialVerifierを生成する。
// timeoutはログインエンドポイント呼び出し全体の上限時間。
func NewCredentialVerifier(baseURL string, timeout time.Duration) *CredentialVerifier {
	return &CredentialVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// loginRequest はログインエンドポイントへのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログインエンドポイントの成功レスポンスボディ。
type loginResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// Verify は資格情報をバックエンドで検証し、成功時はIdentityを返す。
// 入力不足・認証拒否・通信障害のいずれの場合もnilを返し、リトライはしない。
// 入力が不足している場合はネットワーク呼び出しを行わない。
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) *model.Identity {
	if email == "" || password == "" {
		return nil
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		slog.Error("failed to marshal login request", slog.String("error", err.Error()))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to create login request", slog.String("error", err.Error()))
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		// 通信障害は認証失敗と同じ結果に畳み込む（ログのみ残す）
		slog.Warn("login request failed", slog.String("error", err.Error()))
		return nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("failed to read login response", slog.String("error", err.Error()))
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Info("login rejected by backend",
			slog.Int("status", resp.StatusCode),
		)
		return nil
	}

	var lr loginResponse
	if err := json.Unmarshal(respBody, &lr); err != nil {
		slog.Warn("failed to parse login response", slog.String("error", err.Error()))
		return nil
	}

	// user_idが無いレスポンスからIdentityは構築しない
	if lr.UserID == "" {
		slog.Warn("login response missing user_id")
		return nil
	}

	return &model.Identity{
		ID:          lr.UserID,
		Email:       lr.Email,
		AccessToken: lr.AccessToken,
		Provider:    model.ProviderCredentials,
	}
}
